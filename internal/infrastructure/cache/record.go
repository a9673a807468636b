package cache

import (
	"github.com/shopspring/decimal"

	"github.com/bibbank/amortization/internal/domain/model"
)

// entryRecord is the cached wire form of a schedule row.
type entryRecord struct {
	Month            int             `json:"month"`
	Payment          decimal.Decimal `json:"payment"`
	Interest         decimal.Decimal `json:"interest"`
	PrincipalPortion decimal.Decimal `json:"principal_portion"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

func toRecords(schedule []model.ScheduleEntry) []entryRecord {
	out := make([]entryRecord, len(schedule))
	for i, e := range schedule {
		out[i] = entryRecord{
			Month:            e.Month,
			Payment:          e.Payment,
			Interest:         e.Interest,
			PrincipalPortion: e.PrincipalPortion,
			RemainingBalance: e.RemainingBalance,
		}
	}
	return out
}

func fromRecords(records []entryRecord) []model.ScheduleEntry {
	out := make([]model.ScheduleEntry, len(records))
	for i, r := range records {
		out[i] = model.ScheduleEntry{
			Month:            r.Month,
			Payment:          r.Payment,
			Interest:         r.Interest,
			PrincipalPortion: r.PrincipalPortion,
			RemainingBalance: r.RemainingBalance,
		}
	}
	return out
}
