package database

// DocumentRow is one persisted synopsis line. Position is its line order in
// the source file.
type DocumentRow struct {
	Position int
	Content  string
	Distance float64
}
