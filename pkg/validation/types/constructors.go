package types

// Number returns a new NumberType.
func Number() *NumberType {
	return &NumberType{}
}

// String returns a new StringType.
func String() *StringType {
	return &StringType{}
}
