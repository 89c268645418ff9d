package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ikkim/shopadmin-backend/internal/app/model"
	"github.com/ikkim/shopadmin-backend/internal/app/repository"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	colName = iota
	colDescription
	colPrice
	colStock
	colProductType
	colImages
)

type productRow struct {
	Line        int
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	ProductType string
	Images      []string
}

type skippedRow struct {
	Line   int
	Reason string
}

type importResult struct {
	Products     int
	TypesCreated int
}

func readProductRows(filePath string) ([]productRow, []skippedRow, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("no data found in XLSX file")
	}

	var parsed []productRow
	var skipped []skippedRow
	// first row is the header
	for i, row := range rows[1:] {
		line := i + 2
		if isBlank(row) {
			continue
		}
		p, err := parseProductRow(row)
		if err != nil {
			skipped = append(skipped, skippedRow{Line: line, Reason: err.Error()})
			continue
		}
		p.Line = line
		parsed = append(parsed, p)
	}
	return parsed, skipped, nil
}

func parseProductRow(row []string) (productRow, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	p := productRow{
		Name:        cell(colName),
		Description: cell(colDescription),
		ProductType: cell(colProductType),
	}
	if p.Name == "" {
		return p, errors.New("name is required")
	}
	if p.ProductType == "" {
		return p, errors.New("product type is required")
	}

	price, err := decimal.NewFromString(cell(colPrice))
	if err != nil {
		return p, fmt.Errorf("invalid price %q", cell(colPrice))
	}
	if !price.IsPositive() {
		return p, errors.New("price must be greater than 0")
	}
	p.Price = price.Round(2)

	if raw := cell(colStock); raw != "" {
		stock, err := strconv.Atoi(raw)
		if err != nil || stock < 0 {
			return p, fmt.Errorf("invalid stock %q", raw)
		}
		p.Stock = stock
	}

	p.Images = splitImages(cell(colImages))
	return p, nil
}

func splitImages(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n'
	})
	images := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			images = append(images, f)
		}
	}
	return images
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// importProducts writes rows in one transaction, creating product types by name as needed.
func importProducts(database *gorm.DB, rows []productRow, batch int) (importResult, error) {
	if batch < 1 {
		batch = 100
	}
	var result importResult

	err := database.Transaction(func(tx *gorm.DB) error {
		typeRepo := repository.NewProductTypeRepository(tx)
		typeIDs := make(map[string]uint)

		products := make([]model.Product, 0, len(rows))
		for _, r := range rows {
			key := strings.ToLower(r.ProductType)
			typeID, ok := typeIDs[key]
			if !ok {
				pt, err := typeRepo.FindByName(r.ProductType)
				switch {
				case errors.Is(err, gorm.ErrRecordNotFound):
					pt = &model.ProductType{Name: r.ProductType}
					if err := typeRepo.Create(pt); err != nil {
						return fmt.Errorf("row %d: failed to create product type %q: %w", r.Line, r.ProductType, err)
					}
					result.TypesCreated++
				case err != nil:
					return fmt.Errorf("row %d: failed to look up product type %q: %w", r.Line, r.ProductType, err)
				}
				typeID = pt.ID
				typeIDs[key] = typeID
			}

			products = append(products, model.Product{
				Name:          r.Name,
				Description:   r.Description,
				Price:         r.Price,
				Stock:         r.Stock,
				ProductTypeID: typeID,
				Images:        datatypes.JSONSlice[string](r.Images),
				IsActive:      true,
			})
		}

		if err := tx.Omit("ProductType").CreateInBatches(products, batch).Error; err != nil {
			return fmt.Errorf("failed to insert products: %w", err)
		}
		result.Products = len(products)
		return nil
	})
	return result, err
}
