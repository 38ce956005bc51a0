// Package store is the persistence layer over gorm. The header/items write and
// the legacy summary row are a single transaction: a reader must never observe
// a partially written boleta or a boleta without its summary row.
package store

import (
	"gorm.io/gorm"

	"github.com/diewo77/lavanderia-app/internal/models"
)

type Store struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Store { return &Store{DB: db} }

// Filtro restricts listings; empty fields mean no restriction. Desde/Hasta
// compare inclusively against the date portion of fecha (YYYY-MM-DD).
type Filtro struct {
	Cliente string
	Desde   string
	Hasta   string
}

func (f Filtro) apply(q *gorm.DB) *gorm.DB {
	if f.Cliente != "" {
		q = q.Where("cliente LIKE ?", "%"+f.Cliente+"%")
	}
	if f.Desde != "" {
		q = q.Where("substr(fecha,1,10) >= ?", f.Desde)
	}
	if f.Hasta != "" {
		q = q.Where("substr(fecha,1,10) <= ?", f.Hasta)
	}
	return q
}

// CreateBoleta writes the header, its items and the legacy summary row in one
// transaction and returns the generated header id.
func (s *Store) CreateBoleta(b *models.Boleta, resumen models.BoletaResumen) (uint, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(b).Error; err != nil {
			return err
		}
		if err := tx.Create(&resumen).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return b.ID, nil
}

// ListResumen returns one page of legacy rows, newest first by date then id.
func (s *Store) ListResumen(f Filtro, limit, offset int) ([]models.BoletaResumen, error) {
	var rows []models.BoletaResumen
	err := f.apply(s.DB.Model(&models.BoletaResumen{})).
		Order("substr(fecha,1,10) DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&rows).Error
	return rows, err
}

// CountResumen counts legacy rows under the same predicate as ListResumen.
func (s *Store) CountResumen(f Filtro) (int64, error) {
	var total int64
	err := f.apply(s.DB.Model(&models.BoletaResumen{})).Count(&total).Error
	return total, err
}

// TotalPeriodo sums precio under the filter, 0 when nothing matches.
func (s *Store) TotalPeriodo(f Filtro) (float64, error) {
	var total float64
	err := f.apply(s.DB.Model(&models.BoletaResumen{})).
		Select("COALESCE(SUM(precio), 0)").
		Scan(&total).Error
	return total, err
}

// AllResumen returns every legacy row, same ordering as the listing. Feed for
// the CSV export, which is always unfiltered.
func (s *Store) AllResumen() ([]models.BoletaResumen, error) {
	var rows []models.BoletaResumen
	err := s.DB.Model(&models.BoletaResumen{}).
		Order("substr(fecha,1,10) DESC, id DESC").
		Find(&rows).Error
	return rows, err
}

// GetBoleta fetches one header with its items ordered as entered.
// Returns gorm.ErrRecordNotFound for unknown ids.
func (s *Store) GetBoleta(id uint) (*models.Boleta, error) {
	var b models.Boleta
	err := s.DB.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).First(&b, id).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}
