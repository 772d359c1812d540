package repositories

import "gorm.io/gorm"

// TxManager runs a function inside a single database transaction. The role
// workflow uses it so that the request transition, the role update and the
// notification insert land together or not at all.
type TxManager interface {
	Do(fn func(tx *gorm.DB) error) error
}

type gormTxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) TxManager {
	return &gormTxManager{db: db}
}

func (m *gormTxManager) Do(fn func(tx *gorm.DB) error) error {
	return m.db.Transaction(fn)
}
