package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"welin-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// welinIDRepository implements WelinIDRepository
type welinIDRepository struct {
	db *gorm.DB
}

// NewWelinIDRepository creates a new welin ID repository
func NewWelinIDRepository(db *gorm.DB) WelinIDRepository {
	return &welinIDRepository{db: db}
}

// NextID allocates the next identifier for the current year. The counter row
// is locked for the duration of the transaction so concurrent creations
// never mint the same id.
func (r *welinIDRepository) NextID(ctx context.Context) (string, error) {
	year := time.Now().Format("2006")

	var id string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var counter models.WelinIDCounter
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("year = ?", year).
			First(&counter).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			counter = models.WelinIDCounter{Prefix: "WELIN", Year: year}
			if err := tx.Create(&counter).Error; err != nil {
				return err
			}
		}

		counter.LastID++
		if err := tx.Save(&counter).Error; err != nil {
			return err
		}

		id = fmt.Sprintf("%s-%s-%05d", counter.Prefix, counter.Year, counter.LastID)
		return nil
	})
	if err != nil {
		return "", err
	}

	return id, nil
}
