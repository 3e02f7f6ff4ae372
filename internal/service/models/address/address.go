package address

// Address is one delivery address of the authenticated user. At most
// one address is the default at a time; setting a new default demotes
// the previous one server-side.
type Address struct {
	ID        string `json:"id"`
	Value     string `json:"value"`
	IsDefault bool   `json:"isDefault"`
}

// DefaultIndex returns the index of the default address, or -1 if none
// is marked default.
func DefaultIndex(addrs []Address) int {
	for i, a := range addrs {
		if a.IsDefault {
			return i
		}
	}

	return -1
}

// CountDefaults returns how many addresses are marked default. Anything
// other than zero or one is a backend contract violation.
func CountDefaults(addrs []Address) int {
	n := 0
	for _, a := range addrs {
		if a.IsDefault {
			n++
		}
	}

	return n
}
