package tui

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/homeloan/internal/amortization"
	"github.com/theirongolddev/homeloan/internal/config"
	"github.com/theirongolddev/homeloan/internal/tui/theme"
)

// SetupValues are the fields of the first-run wizard. They are strings
// because huh inputs bind to strings; Apply parses them.
type SetupValues struct {
	Theme         string
	HomePrice     string
	DownPercent   string
	Rate          string
	Years         string
	Frequency     string
	MonthlyIncome string
	GrowthRate    string
}

// NewSetupValues prefills the wizard from cfg.
func NewSetupValues(cfg config.Config) *SetupValues {
	return &SetupValues{
		Theme:         cfg.Appearance.Theme,
		HomePrice:     formatInput(cfg.Loan.HomePrice),
		DownPercent:   formatInput(cfg.Loan.DownPaymentPercent),
		Rate:          formatInput(cfg.Loan.AnnualRatePercent),
		Years:         strconv.Itoa(cfg.Loan.TermYears),
		Frequency:     frequencySlug(cfg.Loan.Frequency),
		MonthlyIncome: formatInput(cfg.Income.MonthlyIncome),
		GrowthRate:    formatInput(cfg.Income.GrowthRatePercent),
	}
}

// NewSetupForm builds the wizard bound to v.
func NewSetupForm(v *SetupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, th := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(th.Name, th.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to homeloan").
				Description("Set the defaults the calculator starts from.\nRun `homeloan setup` anytime to change them."),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&v.Theme),
		),
		huh.NewGroup(
			huh.NewInput().Title("Home price").Value(&v.HomePrice).Validate(validatePositive),
			huh.NewInput().Title("Down payment %").Value(&v.DownPercent).Validate(validatePercent),
			huh.NewInput().Title("Interest rate %").Value(&v.Rate).Validate(validateNonNegative),
			huh.NewInput().Title("Loan term (years)").Value(&v.Years).Validate(validateYears),
			huh.NewSelect[string]().
				Title("Payment frequency").
				Options(frequencyOptions()...).
				Value(&v.Frequency),
		).Title("Loan defaults"),
		huh.NewGroup(
			huh.NewInput().Title("Monthly income").Value(&v.MonthlyIncome).Validate(validateNonNegative),
			huh.NewInput().Title("Annual growth %").Value(&v.GrowthRate).Validate(validateNumber),
		).Title("Income defaults"),
	).WithTheme(huh.ThemeCharm())
}

// Apply parses the wizard answers into cfg.
func (v SetupValues) Apply(cfg *config.Config) error {
	var errs []error
	num := func(field, s string) float64 {
		f, err := parseAmount(s)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", field, err))
		}
		return f
	}

	loan := cfg.Loan
	loan.HomePrice = num("home price", v.HomePrice)
	loan.DownPaymentPercent = num("down payment", v.DownPercent)
	loan.AnnualRatePercent = num("rate", v.Rate)
	loan.TermYears = int(num("years", v.Years))
	if f, err := amortization.ParseFrequency(v.Frequency); err != nil {
		errs = append(errs, err)
	} else {
		loan.Frequency = strings.ToLower(f.String())
	}

	inc := cfg.Income
	inc.MonthlyIncome = num("monthly income", v.MonthlyIncome)
	inc.GrowthRatePercent = num("growth rate", v.GrowthRate)

	if err := errors.Join(errs...); err != nil {
		return err
	}
	cfg.Loan, cfg.Income = loan, inc
	if v.Theme != "" {
		cfg.Appearance.Theme = v.Theme
	}
	return nil
}

// parseAmount reads a number typed into a form, tolerating "$", "%",
// thousands separators and surrounding spaces.
func parseAmount(s string) (float64, error) {
	clean := strings.NewReplacer("$", "", ",", "", "%", "", " ", "").Replace(s)
	if clean == "" {
		return 0, fmt.Errorf("%w: value required", amortization.ErrInvalidInput)
	}
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q is not a number", amortization.ErrInvalidInput, s)
	}
	return f, nil
}

func formatInput(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func frequencySlug(s string) string {
	f, err := amortization.ParseFrequency(s)
	if err != nil {
		f = amortization.Monthly
	}
	return strings.ToLower(f.String())
}

func frequencyOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(amortization.Frequencies))
	for i, f := range amortization.Frequencies {
		opts[i] = huh.NewOption(f.String(), strings.ToLower(f.String()))
	}
	return opts
}

// Field validators shared by the forms.

func validateNumber(s string) error {
	_, err := parseAmount(s)
	return err
}

func validateNonNegative(s string) error {
	f, err := parseAmount(s)
	if err != nil {
		return err
	}
	if f < 0 {
		return errors.New("must not be negative")
	}
	return nil
}

func validatePositive(s string) error {
	f, err := parseAmount(s)
	if err != nil {
		return err
	}
	if f <= 0 {
		return errors.New("must be greater than zero")
	}
	return nil
}

func validatePercent(s string) error {
	f, err := parseAmount(s)
	if err != nil {
		return err
	}
	if f < 0 || f > 100 {
		return errors.New("must be between 0 and 100")
	}
	return nil
}

func validateYears(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 50 {
		return errors.New("whole number of years between 1 and 50")
	}
	return nil
}
