package shop

type IDGenerator interface {
	NewID() string
}
