package image

// Ref is a reference to a stored image: the object path inside the
// bucket and the public URL derived from it. An entity referencing an
// image has at most one live path at a time.
type Ref struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

func (r Ref) IsZero() bool {
	return r.Path == "" && r.URL == ""
}
