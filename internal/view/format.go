package view

import (
	"math"
	"strings"
	"time"

	"jobboard/internal/domain/job"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const DateLayout = "02/01/2006"

var printer = message.NewPrinter(language.BritishEnglish)

var currencySymbols = map[string]string{
	"GBP": "£",
	"USD": "$",
	"EUR": "€",
}

// SalarySuffix is the per-period abbreviation shown after a salary. Unknown
// types fall back to hourly.
func SalarySuffix(t job.SalaryType) string {
	switch t {
	case job.SalaryYearly:
		return "pa"
	case job.SalaryMonthly:
		return "pcm"
	case job.SalaryWeekly:
		return "pw"
	default:
		return "ph"
	}
}

// FormatMoney groups thousands the en-GB way. Whole amounts drop the pence.
func FormatMoney(amount float64, currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	symbol, ok := currencySymbols[code]
	if !ok {
		symbol = code + " "
	}

	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	var digits string
	if amount == math.Trunc(amount) {
		digits = printer.Sprintf("%d", int64(amount))
	} else {
		digits = printer.Sprintf("%.2f", amount)
	}
	return sign + symbol + digits
}

func SalaryLabel(amount float64, t job.SalaryType) string {
	return FormatMoney(amount, "GBP") + " " + SalarySuffix(t)
}

func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

func ApplicantLabel(n int) string {
	if n > 1 {
		return printer.Sprintf("%d Applicants", n)
	}
	return printer.Sprintf("%d Applicant", n)
}

func YesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
