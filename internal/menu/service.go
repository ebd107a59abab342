package menu

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/nagpalarpit/POS-WaiterApp/internal/cart"
	"github.com/nagpalarpit/POS-WaiterApp/internal/database"
)

const (
	MENU_CACHE_PREFIX = "menu:categories:"
	CACHE_TTL_MEDIUM  = 30 * time.Minute
)

// Service serves the per-company menu from postgres, with a redis cache in
// front of it, and ingests legacy-shaped menu payloads through the
// normalizer.
type Service struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewService(db *gorm.DB, redisClient *redis.Client) *Service {
	return &Service{
		db:    db,
		redis: redisClient,
	}
}

func cacheKey(companyID int64) string {
	return fmt.Sprintf("%s%d", MENU_CACHE_PREFIX, companyID)
}

// Categories returns the canonical menu for a company.
func (s *Service) Categories(ctx context.Context, companyID int64) ([]Category, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey(companyID)).Result(); err == nil {
			var categories []Category
			if err := json.Unmarshal([]byte(cached), &categories); err == nil {
				return categories, nil
			}
		}
	}

	var rows []database.MenuCategory
	if err := s.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Preload("MenuItems.Variants.Attributes.Values").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load menu categories: %w", err)
	}

	categories := make([]Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, categoryToCanonical(row))
	}

	if s.redis != nil {
		if data, err := json.Marshal(categories); err == nil {
			_ = s.redis.Set(ctx, cacheKey(companyID), string(data), CACHE_TTL_MEDIUM).Err()
		}
	}

	return categories, nil
}

// Import ingests a menu payload in any of the legacy shapes, normalizes it and
// replaces the company's stored menu. Returns the number of items imported.
func (s *Service) Import(ctx context.Context, companyID int64, rawCategories []map[string]interface{}) (int, error) {
	imported := 0

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []database.MenuCategory
		if err := tx.Where("company_id = ?", companyID).Find(&existing).Error; err != nil {
			return err
		}
		for _, category := range existing {
			if err := deleteCategory(tx, category.ID); err != nil {
				return err
			}
		}

		for _, rawCategory := range rawCategories {
			categoryRow := database.MenuCategory{
				CompanyID: companyID,
				Name:      stringField(rawCategory, "", "name"),
			}
			if tax, ok := asMap(rawCategory["tax"]); ok {
				if percentage := numberField(tax, 0, "percentage"); percentage != 0 {
					categoryRow.TaxPercentage = &percentage
				}
				if flat := numberField(tax, 0, "flatAmount"); flat != 0 {
					categoryRow.TaxFlatAmount = &flat
				}
			}
			if err := tx.Create(&categoryRow).Error; err != nil {
				return err
			}

			rawItems, _ := asSlice(rawCategory["menuItems"])
			if rawItems == nil {
				rawItems, _ = asSlice(rawCategory["items"])
			}
			for _, entry := range rawItems {
				rawItem, ok := asMap(entry)
				if !ok {
					continue
				}
				if err := insertItem(tx, categoryRow.ID, NormalizeItem(rawItem)); err != nil {
					return err
				}
				imported++
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("import menu: %w", err)
	}

	s.InvalidateCache(ctx, companyID)
	return imported, nil
}

func (s *Service) InvalidateCache(ctx context.Context, companyID int64) {
	if s.redis != nil {
		_ = s.redis.Del(ctx, cacheKey(companyID))
	}
}

func deleteCategory(tx *gorm.DB, categoryID int64) error {
	var items []database.MenuItem
	if err := tx.Where("category_id = ?", categoryID).Preload("Variants.Attributes").Find(&items).Error; err != nil {
		return err
	}
	for _, item := range items {
		for _, variant := range item.Variants {
			for _, attribute := range variant.Attributes {
				if err := tx.Where("attribute_id = ?", attribute.ID).Delete(&database.MenuItemVariantAttributeValue{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("variant_id = ?", variant.ID).Delete(&database.MenuItemVariantAttribute{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("menu_item_id = ?", item.ID).Delete(&database.MenuItemVariant{}).Error; err != nil {
			return err
		}
	}
	if err := tx.Where("category_id = ?", categoryID).Delete(&database.MenuItem{}).Error; err != nil {
		return err
	}
	return tx.Delete(&database.MenuCategory{}, categoryID).Error
}

func insertItem(tx *gorm.DB, categoryID int64, item MenuItem) error {
	itemRow := database.MenuItem{
		CategoryID: categoryID,
		CustomID:   int64(item.CustomID),
		Name:       item.Name,
		Price:      cart.FormatAmount(item.Price),
	}
	if item.Description != "" {
		itemRow.Description = &item.Description
	}
	if item.ImagePath != "" {
		itemRow.ImagePath = &item.ImagePath
	}
	if item.SKU != "" {
		itemRow.SKU = &item.SKU
	}
	if err := tx.Create(&itemRow).Error; err != nil {
		return err
	}

	for _, variant := range item.MenuItemVariants {
		variantRow := database.MenuItemVariant{
			MenuItemID: itemRow.ID,
			Name:       variant.Name,
			Price:      cart.FormatAmount(variant.Price),
		}
		if err := tx.Create(&variantRow).Error; err != nil {
			return err
		}

		for _, attribute := range variant.MenuItemVariantAttributes {
			attributeRow := database.MenuItemVariantAttribute{
				VariantID:       variantRow.ID,
				Name:            attribute.Name,
				Price:           cart.FormatAmount(attribute.Price),
				SelectionTypeID: int32(attribute.SelectionTypeID),
			}
			if err := tx.Create(&attributeRow).Error; err != nil {
				return err
			}

			for _, value := range attribute.MenuItemVariantAttributeValues {
				valueRow := database.MenuItemVariantAttributeValue{
					AttributeID: attributeRow.ID,
					Name:        value.Name,
					Price:       cart.FormatAmount(value.Price),
				}
				if err := tx.Create(&valueRow).Error; err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// -- Row to canonical mapping --

func categoryToCanonical(row database.MenuCategory) Category {
	items := make([]MenuItem, 0, len(row.MenuItems))
	for _, item := range row.MenuItems {
		items = append(items, itemToCanonical(item))
	}

	var tax *cart.TaxRule
	if row.TaxPercentage != nil || row.TaxFlatAmount != nil {
		tax = &cart.TaxRule{}
		if row.TaxPercentage != nil {
			tax.Percentage = *row.TaxPercentage
		}
		if row.TaxFlatAmount != nil {
			tax.FlatAmount = *row.TaxFlatAmount
		}
	}

	return Category{
		ID:        int(row.ID),
		Name:      row.Name,
		Tax:       tax,
		MenuItems: items,
	}
}

func itemToCanonical(row database.MenuItem) MenuItem {
	variants := make([]Variant, 0, len(row.Variants))
	for _, variant := range row.Variants {
		variants = append(variants, variantToCanonical(variant))
	}
	sort.SliceStable(variants, func(i, j int) bool {
		return variantCollator.CompareString(variants[i].Name, variants[j].Name) < 0
	})

	item := MenuItem{
		ID:               int(row.ID),
		CustomID:         int(row.CustomID),
		Name:             row.Name,
		Price:            cart.CoerceNumber(row.Price, 0),
		MenuItemVariants: variants,
	}
	if row.Description != nil {
		item.Description = *row.Description
	}
	if row.ImagePath != nil {
		item.ImagePath = *row.ImagePath
	}
	if row.SKU != nil {
		item.SKU = *row.SKU
	}
	return item
}

func variantToCanonical(row database.MenuItemVariant) Variant {
	attributes := make([]Attribute, 0, len(row.Attributes))
	for _, attribute := range row.Attributes {
		values := make([]Value, 0, len(attribute.Values))
		for _, value := range attribute.Values {
			values = append(values, Value{
				ID:    int(value.ID),
				Name:  value.Name,
				Price: cart.CoerceNumber(value.Price, 0),
			})
		}
		attributes = append(attributes, Attribute{
			ID:                             int(attribute.ID),
			Name:                           attribute.Name,
			Price:                          cart.CoerceNumber(attribute.Price, 0),
			SelectionTypeID:                int(attribute.SelectionTypeID),
			MenuItemVariantAttributeValues: values,
		})
	}

	return Variant{
		ID:                        int(row.ID),
		Name:                      row.Name,
		Price:                     cart.CoerceNumber(row.Price, 0),
		MenuItemVariantAttributes: attributes,
	}
}
