package dataset

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strconv"

	"resilinet/internal/model"
)

// Balance sheets derived from a CSV are synthesized around the observed
// lending volume: a fat fixed base plus a multiple of everything the bank
// has out of the door.
const (
	csvAssetBase       = 25_000_000.0
	csvAssetPerLoan    = 15.0
	csvCapitalLow      = 14.0
	csvCapitalHigh     = 18.0
	csvInitialStrategy = 0.5
	csvVIPNorm         = 5_000_000.0
)

// CSVSource loads real exposure records. The file carries one row per
// loan: lender_id, borrower_id, exposure_amount, interest_rate.
type CSVSource struct {
	Path string
	rng  *rand.Rand
}

func NewCSV(path string, rng *rand.Rand) *CSVSource {
	return &CSVSource{Path: path, rng: rng}
}

func (s *CSVSource) Name() string { return "csv" }

func (s *CSVSource) Load() ([]model.BankNode, []model.Exposure, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("csv parse: %w", err)
	}
	if len(records) < 2 {
		return nil, nil, fmt.Errorf("csv %s: no data rows", s.Path)
	}

	col := map[string]int{}
	for i, name := range records[0] {
		col[name] = i
	}
	for _, name := range []string{"lender_id", "borrower_id", "exposure_amount", "interest_rate"} {
		if _, ok := col[name]; !ok {
			return nil, nil, fmt.Errorf("csv %s: missing column %q", s.Path, name)
		}
	}

	var exposures []model.Exposure
	outgoing := map[string]float64{}
	ids := map[string]bool{}
	for n, rec := range records[1:] {
		amount, err := strconv.ParseFloat(rec[col["exposure_amount"]], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("csv %s row %d: bad exposure_amount: %w", s.Path, n+2, err)
		}
		rate, err := strconv.ParseFloat(rec[col["interest_rate"]], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("csv %s row %d: bad interest_rate: %w", s.Path, n+2, err)
		}
		lender := rec[col["lender_id"]]
		borrower := rec[col["borrower_id"]]
		exposures = append(exposures, model.Exposure{
			Lender:       lender,
			Borrower:     borrower,
			Amount:       amount,
			InterestRate: rate,
		})
		outgoing[lender] += amount
		ids[lender] = true
		ids[borrower] = true
	}

	ordered := make([]string, 0, len(ids))
	for id := range ids {
		ordered = append(ordered, id)
	}
	sort.Strings(ordered)

	banks := make([]model.BankNode, 0, len(ordered))
	for _, id := range ordered {
		banks = append(banks, model.BankNode{
			ID:           id,
			Assets:       csvAssetBase + outgoing[id]*csvAssetPerLoan,
			CapitalRatio: csvCapitalLow + s.rng.Float64()*(csvCapitalHigh-csvCapitalLow),
			Strategy:     csvInitialStrategy,
			Status:       model.StatusActive,
			VIPScore:     outgoing[id] / csvVIPNorm,
		})
	}
	return banks, exposures, nil
}
