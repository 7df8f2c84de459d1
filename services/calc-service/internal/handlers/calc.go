package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lfmartins/cltcalc/libs/moneyfmt"
	"github.com/lfmartins/cltcalc/services/calc-service/internal/calculators"
	"github.com/lfmartins/cltcalc/services/calc-service/internal/entitlement"
	"github.com/lfmartins/cltcalc/services/calc-service/internal/tax"
)

// CalcHandler serves the calculator catalog. Every endpoint consults the
// entitlement gate before computing; a denied gate never reaches the engine.
type CalcHandler struct {
	gate   *entitlement.Gate
	logger *slog.Logger
}

func NewCalcHandler(gate *entitlement.Gate, logger *slog.Logger) *CalcHandler {
	return &CalcHandler{gate: gate, logger: logger}
}

type usagePayload struct {
	Unlimited bool `json:"unlimited"`
	Remaining int  `json:"remaining"`
}

type deniedResponse struct {
	Error     string `json:"error"`
	Remaining int    `json:"remaining"`
	Upgrade   string `json:"upgrade"`
}

func usageFromConsumption(c entitlement.Consumption) usagePayload {
	return usagePayload{Unlimited: c.Unlimited, Remaining: c.Remaining}
}

// consume runs the gate and writes the response itself when the action is not
// permitted. The caller proceeds only when ok is true.
func (h *CalcHandler) consume(w http.ResponseWriter, r *http.Request) (entitlement.Consumption, bool) {
	accountID := AccountIDFromContext(r.Context())
	if accountID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return entitlement.Consumption{}, false
	}

	c, err := h.gate.TryConsumeCalc(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, entitlement.ErrUsageExhausted) {
			writeJSON(w, http.StatusPaymentRequired, deniedResponse{
				Error:     "free calculation limit reached",
				Remaining: 0,
				Upgrade:   "/api/v1/billing/checkout",
			})
			return entitlement.Consumption{}, false
		}
		// Fail closed: a storage failure never grants unmetered access.
		h.logger.Error("entitlement check failed", "err", err, "account_id", accountID)
		http.Error(w, "usage service unavailable, try again later", http.StatusServiceUnavailable)
		return entitlement.Consumption{}, false
	}
	return c, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return false
	}
	return true
}

type inssRequest struct {
	Income decimal.Decimal `json:"income"`
	Year   int             `json:"year"`
}

type inssResponse struct {
	Year          int             `json:"year"`
	AmountDue     decimal.Decimal `json:"amount_due"`
	Formatted     string          `json:"formatted"`
	EffectiveRate decimal.Decimal `json:"effective_rate"`
	MarginalRate  decimal.Decimal `json:"marginal_rate"`
	Usage         usagePayload    `json:"usage"`
}

func (h *CalcHandler) INSS(w http.ResponseWriter, r *http.Request) {
	var req inssRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Income.IsNegative() {
		http.Error(w, "income must be non-negative", http.StatusBadRequest)
		return
	}

	c, ok := h.consume(w, r)
	if !ok {
		return
	}
	table := tax.ResolveINSS(req.Year)
	result := tax.ComputeINSS(req.Income, table)
	writeJSON(w, http.StatusOK, inssResponse{
		Year:          table.Year,
		AmountDue:     result.AmountDue,
		Formatted:     moneyfmt.BRL(result.AmountDue),
		EffectiveRate: result.EffectiveRate,
		MarginalRate:  result.MarginalRate,
		Usage:         usageFromConsumption(c),
	})
}

type irrfRequest struct {
	GrossBase  decimal.Decimal `json:"gross_base"`
	Dependents int             `json:"dependents"`
	Alimony    decimal.Decimal `json:"alimony"`
	Year       int             `json:"year"`
}

type irrfResponse struct {
	Year                int             `json:"year"`
	AmountDue           decimal.Decimal `json:"amount_due"`
	Formatted           string          `json:"formatted"`
	EffectiveRate       decimal.Decimal `json:"effective_rate"`
	MarginalRate        decimal.Decimal `json:"marginal_rate"`
	BaseAfterDeductions decimal.Decimal `json:"base_after_deductions"`
	TotalDeductions     decimal.Decimal `json:"total_deductions"`
	Usage               usagePayload    `json:"usage"`
}

func (h *CalcHandler) IRRF(w http.ResponseWriter, r *http.Request) {
	var req irrfRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.GrossBase.IsNegative() || req.Alimony.IsNegative() || req.Dependents < 0 {
		http.Error(w, "inputs must be non-negative", http.StatusBadRequest)
		return
	}

	c, ok := h.consume(w, r)
	if !ok {
		return
	}
	table := tax.ResolveIRRF(req.Year)
	result := tax.ComputeIRRF(req.GrossBase, req.Dependents, req.Alimony, table)
	writeJSON(w, http.StatusOK, irrfResponse{
		Year:                table.Year,
		AmountDue:           result.AmountDue,
		Formatted:           moneyfmt.BRL(result.AmountDue),
		EffectiveRate:       result.EffectiveRate,
		MarginalRate:        result.MarginalRate,
		BaseAfterDeductions: result.BaseAfterDeductions,
		TotalDeductions:     result.TotalDeductions,
		Usage:               usageFromConsumption(c),
	})
}

type netSalaryRequest struct {
	GrossSalary decimal.Decimal `json:"gross_salary"`
	Dependents  int             `json:"dependents"`
	Alimony     decimal.Decimal `json:"alimony"`
	Year        int             `json:"year"`
}

type netSalaryResponse struct {
	GrossSalary    decimal.Decimal `json:"gross_salary"`
	INSS           decimal.Decimal `json:"inss"`
	IRRF           decimal.Decimal `json:"irrf"`
	TotalDiscounts decimal.Decimal `json:"total_discounts"`
	NetSalary      decimal.Decimal `json:"net_salary"`
	Formatted      string          `json:"formatted"`
	Usage          usagePayload    `json:"usage"`
}

func (h *CalcHandler) NetSalary(w http.ResponseWriter, r *http.Request) {
	var req netSalaryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.GrossSalary.IsNegative() || req.Alimony.IsNegative() || req.Dependents < 0 {
		http.Error(w, "inputs must be non-negative", http.StatusBadRequest)
		return
	}

	c, ok := h.consume(w, r)
	if !ok {
		return
	}
	result := calculators.NetSalary(calculators.NetSalaryInput{
		GrossSalary: req.GrossSalary,
		Dependents:  req.Dependents,
		Alimony:     req.Alimony,
		Year:        req.Year,
	})
	writeJSON(w, http.StatusOK, netSalaryResponse{
		GrossSalary:    result.GrossSalary,
		INSS:           result.INSS.AmountDue,
		IRRF:           result.IRRF.AmountDue,
		TotalDiscounts: result.TotalDiscounts,
		NetSalary:      result.NetSalary,
		Formatted:      moneyfmt.BRL(result.NetSalary),
		Usage:          usageFromConsumption(c),
	})
}

type vacationRequest struct {
	GrossSalary decimal.Decimal `json:"gross_salary"`
	Days        int             `json:"days"`
	SoldDays    int             `json:"sold_days"`
	Dependents  int             `json:"dependents"`
	Alimony     decimal.Decimal `json:"alimony"`
	Year        int             `json:"year"`
}

type vacationResponse struct {
	VacationPay         decimal.Decimal `json:"vacation_pay"`
	ConstitutionalThird decimal.Decimal `json:"constitutional_third"`
	CashAllowance       decimal.Decimal `json:"cash_allowance"`
	INSS                decimal.Decimal `json:"inss"`
	IRRF                decimal.Decimal `json:"irrf"`
	NetTotal            decimal.Decimal `json:"net_total"`
	Formatted           string          `json:"formatted"`
	Usage               usagePayload    `json:"usage"`
}

func (h *CalcHandler) Vacation(w http.ResponseWriter, r *http.Request) {
	var req vacationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.GrossSalary.IsNegative() || req.Alimony.IsNegative() || req.Dependents < 0 {
		http.Error(w, "inputs must be non-negative", http.StatusBadRequest)
		return
	}
	if req.Days < 1 || req.Days > 30 {
		http.Error(w, "days must be between 1 and 30", http.StatusBadRequest)
		return
	}
	if req.SoldDays < 0 || req.SoldDays > 10 {
		http.Error(w, "sold_days must be between 0 and 10", http.StatusBadRequest)
		return
	}

	c, ok := h.consume(w, r)
	if !ok {
		return
	}
	result := calculators.Vacation(calculators.VacationInput{
		GrossSalary: req.GrossSalary,
		Days:        req.Days,
		SoldDays:    req.SoldDays,
		Dependents:  req.Dependents,
		Alimony:     req.Alimony,
		Year:        req.Year,
	})
	writeJSON(w, http.StatusOK, vacationResponse{
		VacationPay:         result.VacationPay,
		ConstitutionalThird: result.ConstitutionalThird,
		CashAllowance:       result.CashAllowance,
		INSS:                result.INSS.AmountDue,
		IRRF:                result.IRRF.AmountDue,
		NetTotal:            result.NetTotal,
		Formatted:           moneyfmt.BRL(result.NetTotal),
		Usage:               usageFromConsumption(c),
	})
}

type thirteenthRequest struct {
	GrossSalary  decimal.Decimal `json:"gross_salary"`
	MonthsWorked int             `json:"months_worked"`
	Dependents   int             `json:"dependents"`
	Alimony      decimal.Decimal `json:"alimony"`
	Year         int             `json:"year"`
}

type thirteenthResponse struct {
	GrossAmount       decimal.Decimal `json:"gross_amount"`
	FirstInstallment  decimal.Decimal `json:"first_installment"`
	SecondInstallment decimal.Decimal `json:"second_installment"`
	INSS              decimal.Decimal `json:"inss"`
	IRRF              decimal.Decimal `json:"irrf"`
	NetTotal          decimal.Decimal `json:"net_total"`
	Formatted         string          `json:"formatted"`
	Usage             usagePayload    `json:"usage"`
}

func (h *CalcHandler) Thirteenth(w http.ResponseWriter, r *http.Request) {
	var req thirteenthRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.GrossSalary.IsNegative() || req.MonthsWorked < 1 {
		http.Error(w, "months_worked must be at least 1", http.StatusBadRequest)
		return
	}

	c, ok := h.consume(w, r)
	if !ok {
		return
	}
	result := calculators.Thirteenth(calculators.ThirteenthInput{
		GrossSalary:  req.GrossSalary,
		MonthsWorked: req.MonthsWorked,
		Dependents:   req.Dependents,
		Alimony:      req.Alimony,
		Year:         req.Year,
	})
	writeJSON(w, http.StatusOK, thirteenthResponse{
		GrossAmount:       result.GrossAmount,
		FirstInstallment:  result.FirstInstallment,
		SecondInstallment: result.SecondInstallment,
		INSS:              result.INSS.AmountDue,
		IRRF:              result.IRRF.AmountDue,
		NetTotal:          result.NetTotal,
		Formatted:         moneyfmt.BRL(result.NetTotal),
		Usage:             usageFromConsumption(c),
	})
}

type overtimeRequest struct {
	GrossSalary    decimal.Decimal `json:"gross_salary"`
	MonthlyHours   int             `json:"monthly_hours"`
	OvertimeHours  decimal.Decimal `json:"overtime_hours"`
	PremiumPercent int             `json:"premium_percent"`
	WorkingDays    int             `json:"working_days"`
	RestDays       int             `json:"rest_days"`
}

type overtimeResponse struct {
	HourlyRate         decimal.Decimal `json:"hourly_rate"`
	OvertimeHourlyRate decimal.Decimal `json:"overtime_hourly_rate"`
	OvertimePay        decimal.Decimal `json:"overtime_pay"`
	RestReflex         decimal.Decimal `json:"rest_reflex"`
	Total              decimal.Decimal `json:"total"`
	Formatted          string          `json:"formatted"`
	Usage              usagePayload    `json:"usage"`
}

func (h *CalcHandler) Overtime(w http.ResponseWriter, r *http.Request) {
	var req overtimeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.GrossSalary.IsNegative() || req.OvertimeHours.IsNegative() {
		http.Error(w, "inputs must be non-negative", http.StatusBadRequest)
		return
	}

	c, ok := h.consume(w, r)
	if !ok {
		return
	}
	result := calculators.Overtime(calculators.OvertimeInput{
		GrossSalary:    req.GrossSalary,
		MonthlyHours:   req.MonthlyHours,
		OvertimeHours:  req.OvertimeHours,
		PremiumPercent: req.PremiumPercent,
		WorkingDays:    req.WorkingDays,
		RestDays:       req.RestDays,
	})
	writeJSON(w, http.StatusOK, overtimeResponse{
		HourlyRate:         result.HourlyRate,
		OvertimeHourlyRate: result.OvertimeHourlyRate,
		OvertimePay:        result.OvertimePay,
		RestReflex:         result.RestReflex,
		Total:              result.Total,
		Formatted:          moneyfmt.BRL(result.Total),
		Usage:              usageFromConsumption(c),
	})
}

type nightShiftRequest struct {
	GrossSalary    decimal.Decimal `json:"gross_salary"`
	MonthlyHours   int             `json:"monthly_hours"`
	NightHours     decimal.Decimal `json:"night_hours"`
	PremiumPercent int             `json:"premium_percent"`
}

type nightShiftResponse struct {
	HourlyRate          decimal.Decimal `json:"hourly_rate"`
	PremiumPerHour      decimal.Decimal `json:"premium_per_hour"`
	PremiumPay          decimal.Decimal `json:"premium_pay"`
	EffectiveNightHours decimal.Decimal `json:"effective_night_hours"`
	Formatted           string          `json:"formatted"`
	Usage               usagePayload    `json:"usage"`
}

func (h *CalcHandler) NightShift(w http.ResponseWriter, r *http.Request) {
	var req nightShiftRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.GrossSalary.IsNegative() || req.NightHours.IsNegative() {
		http.Error(w, "inputs must be non-negative", http.StatusBadRequest)
		return
	}

	c, ok := h.consume(w, r)
	if !ok {
		return
	}
	result := calculators.NightShift(calculators.NightShiftInput{
		GrossSalary:    req.GrossSalary,
		MonthlyHours:   req.MonthlyHours,
		NightHours:     req.NightHours,
		PremiumPercent: req.PremiumPercent,
	})
	writeJSON(w, http.StatusOK, nightShiftResponse{
		HourlyRate:          result.HourlyRate,
		PremiumPerHour:      result.PremiumPerHour,
		PremiumPay:          result.PremiumPay,
		EffectiveNightHours: result.EffectiveNightHours,
		Formatted:           moneyfmt.BRL(result.PremiumPay),
		Usage:               usageFromConsumption(c),
	})
}

type severanceRequest struct {
	GrossSalary  decimal.Decimal `json:"gross_salary"`
	HireDate     string          `json:"hire_date"`
	Termination  string          `json:"termination_date"`
	Type         string          `json:"type"`
	NoticeWorked bool            `json:"notice_worked"`
	FGTSBalance  decimal.Decimal `json:"fgts_balance"`
	Dependents   int             `json:"dependents"`
}

type severanceResponse struct {
	SalaryBalance          decimal.Decimal `json:"salary_balance"`
	NoticeDays             int             `json:"notice_days"`
	NoticePay              decimal.Decimal `json:"notice_pay"`
	ThirteenthProportional decimal.Decimal `json:"thirteenth_proportional"`
	VacationProportional   decimal.Decimal `json:"vacation_proportional"`
	VacationThird          decimal.Decimal `json:"vacation_third"`
	FGTSFine               decimal.Decimal `json:"fgts_fine"`
	INSS                   decimal.Decimal `json:"inss"`
	IRRF                   decimal.Decimal `json:"irrf"`
	TotalGross             decimal.Decimal `json:"total_gross"`
	TotalNet               decimal.Decimal `json:"total_net"`
	Formatted              string          `json:"formatted"`
	Usage                  usagePayload    `json:"usage"`
}

func (h *CalcHandler) Severance(w http.ResponseWriter, r *http.Request) {
	var req severanceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	hired, err := time.Parse("2006-01-02", req.HireDate)
	if err != nil {
		http.Error(w, "invalid hire_date", http.StatusBadRequest)
		return
	}
	terminated, err := time.Parse("2006-01-02", req.Termination)
	if err != nil {
		http.Error(w, "invalid termination_date", http.StatusBadRequest)
		return
	}
	if terminated.Before(hired) {
		http.Error(w, "termination_date must be after hire_date", http.StatusBadRequest)
		return
	}
	termType := calculators.TerminationType(strings.TrimSpace(req.Type))
	switch termType {
	case calculators.DismissalWithoutCause, calculators.DismissalWithCause, calculators.Resignation:
	default:
		http.Error(w, "unsupported termination type", http.StatusBadRequest)
		return
	}
	if req.GrossSalary.IsNegative() || req.FGTSBalance.IsNegative() {
		http.Error(w, "inputs must be non-negative", http.StatusBadRequest)
		return
	}

	c, ok := h.consume(w, r)
	if !ok {
		return
	}
	result := calculators.Severance(calculators.SeveranceInput{
		GrossSalary:  req.GrossSalary,
		HireDate:     hired,
		Termination:  terminated,
		Type:         termType,
		NoticeWorked: req.NoticeWorked,
		FGTSBalance:  req.FGTSBalance,
		Dependents:   req.Dependents,
	})
	writeJSON(w, http.StatusOK, severanceResponse{
		SalaryBalance:          result.SalaryBalance,
		NoticeDays:             result.NoticeDays,
		NoticePay:              result.NoticePay,
		ThirteenthProportional: result.ThirteenthProportional,
		VacationProportional:   result.VacationProportional,
		VacationThird:          result.VacationThird,
		FGTSFine:               result.FGTSFine,
		INSS:                   result.INSS.AmountDue,
		IRRF:                   result.IRRF.AmountDue,
		TotalGross:             result.TotalGross,
		TotalNet:               result.TotalNet,
		Formatted:              moneyfmt.BRL(result.TotalNet),
		Usage:                  usageFromConsumption(c),
	})
}

type tablesResponse struct {
	Years        []int `json:"years"`
	FallbackYear int   `json:"fallback_year"`
}

// Tables is public metadata, not a metered calculation.
func (h *CalcHandler) Tables(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, tablesResponse{Years: tax.Years(), FallbackYear: tax.FallbackYear})
}
