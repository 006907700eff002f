package error

// GenericError is implemented by errors that carry their own HTTP mapping,
// letting the recovery middleware turn a panic into a proper response.
type GenericError interface {
	Error() string
	ErrCode() string
	StatusCode() int
}
