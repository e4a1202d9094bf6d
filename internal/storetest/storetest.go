// Package storetest provides an in-memory database and fixtures for tests.
package storetest

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nurpe/ledger-service/internal/model"
)

// Open returns a fresh SQLite database with the ledger schema. A single
// connection is used so transactions serialize the way row locks would.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString())
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Discard,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.AutoMigrate(&model.Profile{}, &model.Contract{}, &model.Job{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return database
}

type Fixtures struct {
	t   testing.TB
	db  *gorm.DB
	seq int
}

func NewFixtures(t testing.TB, db *gorm.DB) *Fixtures {
	return &Fixtures{t: t, db: db}
}

// next returns strictly increasing creation times so ordering by created_at is stable.
func (f *Fixtures) next() time.Time {
	f.seq++
	return time.Date(2020, 8, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(f.seq) * time.Second)
}

func (f *Fixtures) Profile(profileType model.ProfileType, profession string, balance string) *model.Profile {
	f.t.Helper()
	p := &model.Profile{
		FirstName:  profession,
		LastName:   string(profileType),
		Profession: profession,
		Balance:    decimal.RequireFromString(balance),
		Type:       profileType,
		CreatedAt:  f.next(),
	}
	if err := f.db.Create(p).Error; err != nil {
		f.t.Fatalf("create profile: %v", err)
	}
	return p
}

func (f *Fixtures) Client(balance string) *model.Profile {
	return f.Profile(model.ProfileTypeClient, "Client", balance)
}

func (f *Fixtures) Contractor(profession string, balance string) *model.Profile {
	return f.Profile(model.ProfileTypeContractor, profession, balance)
}

func (f *Fixtures) Contract(client, contractor *model.Profile, status model.ContractStatus) *model.Contract {
	f.t.Helper()
	c := &model.Contract{
		Terms:        "bla bla bla",
		Status:       status,
		ClientID:     client.ID,
		ContractorID: contractor.ID,
		CreatedAt:    f.next(),
	}
	if err := f.db.Create(c).Error; err != nil {
		f.t.Fatalf("create contract: %v", err)
	}
	return c
}

func (f *Fixtures) Job(contract *model.Contract, price string) *model.Job {
	f.t.Helper()
	j := &model.Job{
		Description: "work",
		Price:       decimal.RequireFromString(price),
		ContractID:  contract.ID,
		CreatedAt:   f.next(),
	}
	if err := f.db.Create(j).Error; err != nil {
		f.t.Fatalf("create job: %v", err)
	}
	return j
}

func (f *Fixtures) PaidJob(contract *model.Contract, price string, paidAt time.Time) *model.Job {
	f.t.Helper()
	paid := true
	at := paidAt.UTC()
	j := &model.Job{
		Description: "work",
		Price:       decimal.RequireFromString(price),
		Paid:        &paid,
		PaymentDate: &at,
		ContractID:  contract.ID,
		CreatedAt:   f.next(),
	}
	if err := f.db.Create(j).Error; err != nil {
		f.t.Fatalf("create paid job: %v", err)
	}
	return j
}

func (f *Fixtures) ReloadProfile(id uuid.UUID) *model.Profile {
	f.t.Helper()
	var p model.Profile
	if err := f.db.Where("id = ?", id).First(&p).Error; err != nil {
		f.t.Fatalf("reload profile: %v", err)
	}
	return &p
}

func (f *Fixtures) ReloadJob(id uuid.UUID) *model.Job {
	f.t.Helper()
	var j model.Job
	if err := f.db.Where("id = ?", id).First(&j).Error; err != nil {
		f.t.Fatalf("reload job: %v", err)
	}
	return &j
}
