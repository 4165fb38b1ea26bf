package ff3

import "fmt"

// ConfigError reports a problem detected while constructing a Cipher: a
// nil block cipher, a block size the Feistel core cannot compose into 16
// bytes, a radix/minlen/maxlen combination that violates NIST SP
// 800-38G's domain-size invariants, or a key of the wrong length.
type ConfigError struct {
	Op  string
	Err error
}

func (e *ConfigError) Error() string { return fmt.Sprintf("ff3: config error in %s: %v", e.Op, e.Err) }
func (e *ConfigError) Unwrap() error { return e.Err }

func configErrorf(op, format string, args ...interface{}) *ConfigError {
	return &ConfigError{Op: op, Err: fmt.Errorf(format, args...)}
}

// InputError reports a problem with a particular call: a tweak of the
// wrong length, a message length outside [minlen, maxlen], a digit
// outside the configured radix, or a destination buffer too small to
// hold the result. Symbols outside the alphabet are not an error: the
// codec carries them through as formatting characters.
type InputError struct {
	Op  string
	Err error
}

func (e *InputError) Error() string { return fmt.Sprintf("ff3: input error in %s: %v", e.Op, e.Err) }
func (e *InputError) Unwrap() error { return e.Err }

func inputErrorf(op, format string, args ...interface{}) *InputError {
	return &InputError{Op: op, Err: fmt.Errorf(format, args...)}
}

// InternalError is never returned by this package, and subtle does not
// use it as a panic value either: when one of subtle's own arithmetic
// invariants is violated (BigAcc overflow, a reduction result that does
// not fit in 96 bits) it panics with a plain string. Such faults denote
// a library bug, not a caller mistake, and are not meant to be
// recovered.
type InternalError struct {
	Op  string
	Err error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("ff3: internal error in %s: %v", e.Op, e.Err)
}
func (e *InternalError) Unwrap() error { return e.Err }
