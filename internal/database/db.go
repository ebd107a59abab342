package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewConnection(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		log.Fatal("DSN is required")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	return db, nil
}

// -- Menu storage --

type MenuCategory struct {
	ID            int64  `gorm:"primaryKey;autoIncrement"`
	CompanyID     int64  `gorm:"index;not null"`
	Name          string `gorm:"type:varchar(128);not null"`
	TaxPercentage *float64
	TaxFlatAmount *float64
	CreatedAt     time.Time
	UpdatedAt     time.Time

	MenuItems []MenuItem `gorm:"foreignKey:CategoryID"`
}

type MenuItem struct {
	ID          int64   `gorm:"primaryKey;autoIncrement"`
	CategoryID  int64   `gorm:"index;not null"`
	CustomID    int64   `gorm:"not null"`
	Name        string  `gorm:"type:varchar(128);not null"`
	Description *string `gorm:"type:text"`
	ImagePath   *string `gorm:"type:varchar(256)"`
	SKU         *string `gorm:"type:varchar(64)"`
	Price       string  `gorm:"type:varchar(32);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Variants []MenuItemVariant `gorm:"foreignKey:MenuItemID"`
}

type MenuItemVariant struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	MenuItemID int64  `gorm:"index;not null"`
	Name       string `gorm:"type:varchar(128);not null"`
	Price      string `gorm:"type:varchar(32);not null"`
	CreatedAt  time.Time

	Attributes []MenuItemVariantAttribute `gorm:"foreignKey:VariantID"`
}

type MenuItemVariantAttribute struct {
	ID              int64  `gorm:"primaryKey;autoIncrement"`
	VariantID       int64  `gorm:"index;not null"`
	Name            string `gorm:"type:varchar(128);not null"`
	Price           string `gorm:"type:varchar(32);not null"`
	SelectionTypeID int32  `gorm:"not null;default:0"`
	CreatedAt       time.Time

	Values []MenuItemVariantAttributeValue `gorm:"foreignKey:AttributeID"`
}

type MenuItemVariantAttributeValue struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	AttributeID int64  `gorm:"index;not null"`
	Name        string `gorm:"type:varchar(128);not null"`
	Price       string `gorm:"type:varchar(32);not null"`
	CreatedAt   time.Time
}

// -- Order storage --

type Order struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	CompanyID      int64  `gorm:"index;not null"`
	OrderStatusID  int32  `gorm:"not null"`
	DeliveryTypeID int32  `gorm:"not null"`
	TableNo        *int32 `gorm:"index"`
	IsPaid         bool   `gorm:"not null;default:false"`

	Subtotal      string `gorm:"type:varchar(32);not null"`
	TaxTotal      string `gorm:"type:varchar(32);not null"`
	DiscountTotal string `gorm:"type:varchar(32);not null"`
	Total         string `gorm:"type:varchar(32);not null"`

	Payload        string  `gorm:"type:text;not null"`
	PaymentSummary *string `gorm:"type:text"`
	PaymentDetails *string `gorm:"type:text"`
	PaidAt         *time.Time
	TSC            *string `gorm:"type:varchar(128)"`
	InvoiceNumber  *string `gorm:"type:varchar(64)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func MigrateDB(db *gorm.DB) error {
	db.AutoMigrate(&MenuCategory{})
	db.AutoMigrate(&MenuItem{})
	db.AutoMigrate(&MenuItemVariant{})
	db.AutoMigrate(&MenuItemVariantAttribute{})
	db.AutoMigrate(&MenuItemVariantAttributeValue{})
	db.AutoMigrate(&Order{})
	return nil
}
