package codec

// CheckLength exposes the length guard, a 4 GiB string is not allocated in tests.
var CheckLength = checkLength
