package rcf

import "errors"

var (
	ErrInvalidMagic     = errors.New("invalid RCF magic")
	ErrUnsupportedMajor = errors.New("unsupported RCF major version")
	ErrCorruptFile      = errors.New("corrupt RCF file")
)
