package math

// CeilInt returns ceil(a / b) for positive b.
func CeilInt(a, b int) int {
	if a%b == 0 {
		return a / b
	}
	return a/b + 1
}
