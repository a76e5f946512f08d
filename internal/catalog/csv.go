package catalog

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gocarina/gocsv"

	"hotel_finder/internal/domain"
	"hotel_finder/internal/format"
)

// csvRow mirrors the catalog file; everything is read as text and parsed
// leniently afterwards.
type csvRow struct {
	ID             string `csv:"id"`
	Name           string `csv:"name"`
	Address        string `csv:"address"`
	District       string `csv:"district"`
	DistrictNumber string `csv:"district_number"`
	Price          string `csv:"price"`
	PriceMin       string `csv:"price_min"`
	PriceMax       string `csv:"price_max"`
	PriceText      string `csv:"price_text"`
	Star           string `csv:"star"`
	Rating         string `csv:"rating"`
	Amenities      string `csv:"amenities"`
	Description    string `csv:"description"`
	ImageURL       string `csv:"image_url"`
	SearchType     string `csv:"search_type"`
}

func (r csvRow) record() domain.HotelRecord {
	star, starText := ParseStar(r.Star)
	return domain.HotelRecord{
		ID:             strings.TrimSpace(r.ID),
		Name:           strings.TrimSpace(r.Name),
		Address:        strings.TrimSpace(r.Address),
		District:       strings.TrimSpace(r.District),
		DistrictNumber: ParseDistrictNumber(r.DistrictNumber, r.District),
		Price:          parseNumberPtr(r.Price),
		PriceMin:       parseNumberPtr(r.PriceMin),
		PriceMax:       parseNumberPtr(r.PriceMax),
		PriceText:      strings.TrimSpace(r.PriceText),
		Star:           star,
		StarText:       starText,
		Rating:         parseNumberPtr(r.Rating),
		Amenities:      format.ParseList(r.Amenities),
		Description:    strings.TrimSpace(r.Description),
		ImageURL:       strings.TrimSpace(r.ImageURL),
		SearchType:     strings.TrimSpace(r.SearchType),
	}
}

var utf8BOM = []byte("\xef\xbb\xbf")

// DecodeCSV parses catalog rows. Rows with neither id nor name are dropped.
func DecodeCSV(data []byte) ([]domain.HotelRecord, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	var rows []csvRow
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, fmt.Errorf("decode catalog csv: %w", err)
	}
	out := make([]domain.HotelRecord, 0, len(rows))
	for _, r := range rows {
		rec := r.record()
		if rec.ID == "" && rec.Name == "" {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// CSVSource loads the catalog from a file on every call.
type CSVSource struct{ Path string }

func (s CSVSource) Load(_ context.Context) ([]domain.HotelRecord, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", s.Path, err)
	}
	return DecodeCSV(data)
}
