package book

import (
	"github.com/libribooks/core/internal/models"
	"gorm.io/gorm"
)

// AuthorsOf returns the book's authors in submission order.
func (s *Service) AuthorsOf(bookID uint) ([]AuthorRef, error) {
	var refs []AuthorRef
	err := s.db.Model(&models.BookAuthorModel{}).
		Select("authors.id, authors.name, authors.slug").
		Joins("JOIN authors ON authors.id = book_authors.author_id").
		Where("book_authors.book_id = ?", bookID).
		Order("book_authors.position ASC").
		Scan(&refs).Error
	return refs, err
}

// TagsOf returns the book's tag names.
func (s *Service) TagsOf(bookID uint) ([]string, error) {
	var names []string
	err := s.db.Model(&models.BookTagModel{}).
		Select("tags.name").
		Joins("JOIN tags ON tags.id = book_tags.tag_id").
		Where("book_tags.book_id = ?", bookID).
		Order("tags.name ASC").
		Scan(&names).Error
	return names, err
}

// replaceAuthors rewrites the book_authors rows for a book: delete the old
// set, insert the new one with positions matching input order. Runs inside
// the caller's transaction so a failure cannot leave the book authorless.
func replaceAuthors(tx *gorm.DB, bookID uint, authorIDs []uint) error {
	if err := tx.Where("book_id = ?", bookID).Delete(&models.BookAuthorModel{}).Error; err != nil {
		return err
	}

	rows := make([]models.BookAuthorModel, 0, len(authorIDs))
	seen := make(map[uint]bool, len(authorIDs))
	for _, id := range authorIDs {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		rows = append(rows, models.BookAuthorModel{
			BookID:   bookID,
			AuthorID: id,
			Position: len(rows),
		})
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

// replaceTags rewrites the book_tags rows for a book. Tag names are
// resolved against existing tag rows; names without a matching row are
// dropped rather than auto-created.
func replaceTags(tx *gorm.DB, bookID uint, tagNames []string) error {
	if err := tx.Where("book_id = ?", bookID).Delete(&models.BookTagModel{}).Error; err != nil {
		return err
	}
	if len(tagNames) == 0 {
		return nil
	}

	var tags []models.TagModel
	if err := tx.Where("name IN ?", tagNames).Find(&tags).Error; err != nil {
		return err
	}

	rows := make([]models.BookTagModel, 0, len(tags))
	seen := make(map[uint]bool, len(tags))
	for _, t := range tags {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		rows = append(rows, models.BookTagModel{BookID: bookID, TagID: t.ID})
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}
