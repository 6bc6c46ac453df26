package missing

// @component
type Orphan struct{}

func BuildOrphan() *Orphan {
	return &Orphan{}
}
