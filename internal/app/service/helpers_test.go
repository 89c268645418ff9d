package service

import (
	"context"
	"sync"
	"testing"

	"github.com/ikkim/shopadmin-backend/internal/app/model"
	"github.com/ikkim/shopadmin-backend/internal/db"
	"github.com/ikkim/shopadmin-backend/pkg/notify"
	"github.com/ikkim/shopadmin-backend/pkg/util"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func init() {
	util.BcryptCost = bcrypt.MinCost
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []notify.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg notify.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

type recordingSMS struct {
	to  []string
	err error
}

func (s *recordingSMS) Send(_ context.Context, to, _ string) error {
	s.to = append(s.to, to)
	return s.err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
	data   []interface{}
}

func (p *recordingPublisher) Publish(eventType string, data interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
	p.data = append(p.data, data)
}

func (p *recordingPublisher) count(eventType string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e == eventType {
			n++
		}
	}
	return n
}

func setupTestDB(t *testing.T) *gorm.DB {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }
func uintPtr(u uint) *uint    { return &u }

func seedProductType(t *testing.T, testDB *gorm.DB, name string) *model.ProductType {
	pt := &model.ProductType{Name: name}
	require.NoError(t, testDB.Create(pt).Error)
	return pt
}

func seedProduct(t *testing.T, testDB *gorm.DB, productTypeID uint, name, price string, stock int) *model.Product {
	p := &model.Product{
		Name:          name,
		Price:         decimal.RequireFromString(price),
		Stock:         stock,
		ProductTypeID: productTypeID,
		IsActive:      true,
	}
	require.NoError(t, testDB.Omit("ProductType").Create(p).Error)
	return p
}

func countLive(t *testing.T, testDB *gorm.DB, table, where string, args ...interface{}) int64 {
	var n int64
	query := testDB.Table(table).Where("is_deleted = ?", false)
	if where != "" {
		query = query.Where(where, args...)
	}
	require.NoError(t, query.Count(&n).Error)
	return n
}
