package entity

type Book struct {
	Base
	Title         string `db:"title"`
	Author        string `db:"author"`
	Description   string `db:"description"`
	Genre         string `db:"genre"`
	CoverImage    string `db:"cover_image"`
	PublishedYear int    `db:"published_year"`
}
