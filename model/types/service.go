package types

// Service groups related worker functions; a function is referenced as
// "<service>.<method>".
type Service interface {
	Name() string
	Methods() Signatures
	Method(name string) (Executable, error)
}
