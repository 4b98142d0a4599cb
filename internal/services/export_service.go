package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	domain "github.com/lancer-works/api/internal/domain"
	"github.com/lancer-works/api/internal/repositories"
)

// ErrExportFailure wraps repository or workbook rendering failures.
var ErrExportFailure = errors.New("export: failed to build workbook")

const exportTimeLayout = "2006-01-02 15:04:05"

// ExportServiceDeps wires dependencies for the export service implementation.
type ExportServiceDeps struct {
	Registry repositories.Registry
}

type exportService struct {
	registry repositories.Registry
}

// NewExportService constructs an ExportService backed by the provided dependencies.
func NewExportService(deps ExportServiceDeps) (ExportService, error) {
	if deps.Registry == nil {
		return nil, errors.New("export service: registry is required")
	}
	return &exportService{registry: deps.Registry}, nil
}

// Workbook renders every record owned by the account into one spreadsheet,
// one sheet per collection.
func (s *exportService) Workbook(ctx context.Context, userID string) ([]byte, error) {
	artists, err := s.registry.Artists().List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportFailure, err)
	}
	bases, err := s.registry.ArtistBases().List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportFailure, err)
	}
	customers, err := s.registry.Customers().List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportFailure, err)
	}
	products, err := s.registry.Products().List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportFailure, err)
	}
	commissions, err := s.registry.Commissions().List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportFailure, err)
	}
	orders, err := s.registry.Orders().List(ctx, userID, repositories.OrderFilter{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportFailure, err)
	}
	lines, err := s.registry.Orders().ListLinesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportFailure, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeSheet(f, "Artists", true,
		[]interface{}{"ID", "Name", "Description", "Social Link"},
		len(artists), func(i int) []interface{} {
			a := artists[i]
			return []interface{}{a.ID, a.Name, a.Description, a.SocialLink}
		}); err != nil {
		return nil, err
	}

	if err := writeSheet(f, "Artist Bases", false,
		[]interface{}{"ID", "Name", "Description", "Price", "Artist", "Tags"},
		len(bases), func(i int) []interface{} {
			b := bases[i]
			artist := ""
			if b.Artist != nil {
				artist = b.Artist.Name
			}
			return []interface{}{b.ID, b.Name, b.Description, b.Price.StringFixed(2), artist, tagNames(b.Tags)}
		}); err != nil {
		return nil, err
	}

	if err := writeSheet(f, "Customers", false,
		[]interface{}{"ID", "Name", "Email", "Discord", "Twitter", "Furaffinity", "Instagram", "Telegram", "Other Name", "Other Link"},
		len(customers), func(i int) []interface{} {
			c := customers[i]
			return []interface{}{c.ID, c.Name, c.Email, c.Discord, c.Twitter, c.Furaffinity, c.Instagram, c.Telegram, c.OtherName, c.OtherLink}
		}); err != nil {
		return nil, err
	}

	if err := writeSheet(f, "Products", false,
		[]interface{}{"ID", "Name", "Description", "Price", "Available"},
		len(products), func(i int) []interface{} {
			p := products[i]
			return []interface{}{p.ID, p.Name, p.Description, p.Price.StringFixed(2), p.Available}
		}); err != nil {
		return nil, err
	}

	if err := writeSheet(f, "Commissions", false,
		[]interface{}{"ID", "Name", "Description", "Price", "Type", "Slots"},
		len(commissions), func(i int) []interface{} {
			c := commissions[i]
			return []interface{}{c.ID, c.Name, c.Description, c.Price.StringFixed(2), string(c.Type), c.Slots}
		}); err != nil {
		return nil, err
	}

	if err := writeSheet(f, "Orders", false,
		[]interface{}{"ID", "Customer", "Status", "Total", "Paid", "Posted", "Started", "Due", "Completed", "Details", "Ordered", "Notes", "Discount Note"},
		len(orders), func(i int) []interface{} {
			o := orders[i]
			customer := ""
			if o.Customer != nil {
				customer = o.Customer.Name
			}
			return []interface{}{
				o.ID, customer, string(o.Status), o.Total.StringFixed(2), o.Paid, o.Posted,
				exportTime(o.StartedAt), exportTime(o.DueAt), exportTime(o.CompletedAt), o.Details,
				o.OrderDate.UTC().Format(exportTimeLayout), o.Notes, o.DiscountNote,
			}
		}); err != nil {
		return nil, err
	}

	if err := writeSheet(f, "Order Lines", false,
		[]interface{}{"ID", "Order ID", "Product", "Quantity", "Unit Price", "Discount", "Net Price", "Discount Label", "Notes"},
		len(lines), func(i int) []interface{} {
			l := lines[i]
			product := ""
			if l.Product != nil {
				product = l.Product.Name
			}
			return []interface{}{l.ID, l.OrderID, product, l.Quantity, l.UnitPrice.StringFixed(2), l.Discount.StringFixed(2), l.NetPrice.StringFixed(2), l.DiscountLabel, l.Notes}
		}); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportFailure, err)
	}
	return buf.Bytes(), nil
}

// writeSheet fills one sheet with a header row and the given rows. The first
// sheet reuses the workbook's default sheet.
func writeSheet(f *excelize.File, name string, first bool, header []interface{}, count int, row func(i int) []interface{}) error {
	if first {
		if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
			return fmt.Errorf("%w: %v", ErrExportFailure, err)
		}
	} else {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("%w: %v", ErrExportFailure, err)
		}
	}

	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("%w: %v", ErrExportFailure, err)
	}
	for i := 0; i < count; i++ {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrExportFailure, err)
		}
		values := row(i)
		if err := f.SetSheetRow(name, cell, &values); err != nil {
			return fmt.Errorf("%w: %v", ErrExportFailure, err)
		}
	}
	return nil
}

func tagNames(tags []domain.Tag) string {
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	return strings.Join(names, ", ")
}

func exportTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(exportTimeLayout)
}
