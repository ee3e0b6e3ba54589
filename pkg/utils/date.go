package utils

import "time"

// MonthLayout é o formato de mês usado nos snapshots de ranking (mm-yyyy)
const MonthLayout = "01-2006"

func MonthKey(date time.Time) string {
	return date.Format(MonthLayout)
}

// ParseMonth valida um mês no formato mm-yyyy. Vazio retorna o mês de referência.
func ParseMonth(monthStr string, reference time.Time) (string, error) {
	if monthStr == "" {
		return MonthKey(reference), nil
	}

	month, err := time.Parse(MonthLayout, monthStr)
	if err != nil {
		return "", err
	}

	return MonthKey(month), nil
}

func FirstDayOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
}
