package observability

const (
	MUsecaseRequests     MetricKey = "usecase_requests_total"
	MUsecaseDuration     MetricKey = "usecase_duration_seconds"
	MHTTPRequests        MetricKey = "http_requests_total"
	MHTTPRequestDuration MetricKey = "http_request_duration_seconds"
	MOrderLines          MetricKey = "order_lines_total"
	MOrderRevenue        MetricKey = "order_revenue_total"
)

// MetricSpec describes how an instrument behind a MetricKey is registered.
type MetricSpec struct {
	Key       MetricKey
	Help      string
	LabelKeys []string
	Buckets   []float64
}

// CounterSpecs and HistogramSpecs list every instrument the application reads.
var (
	CounterSpecs = []MetricSpec{
		{Key: MUsecaseRequests, Help: "Total number of use case invocations.", LabelKeys: []string{"use_case", "outcome"}},
		{Key: MHTTPRequests, Help: "Total number of HTTP requests.", LabelKeys: []string{"method", "route", "status"}},
		{Key: MOrderLines, Help: "Order lines processed, by outcome.", LabelKeys: []string{"status"}},
		{Key: MOrderRevenue, Help: "Sum of order totals in catalog currency units.", LabelKeys: nil},
	}
	HistogramSpecs = []MetricSpec{
		{Key: MUsecaseDuration, Help: "Duration of use case execution in seconds.", LabelKeys: []string{"use_case"}},
		{Key: MHTTPRequestDuration, Help: "Duration of HTTP requests in seconds.", LabelKeys: []string{"method", "route", "status"}},
	}
)
