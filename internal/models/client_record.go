// Package models defines the canonical client record and the sheet column contract.
package models

import (
	"time"
)

// DateLayout is the format used for date fields defaulted to the current day.
const DateLayout = "2006-01-02"

// DefaultClientID is used when neither the caller nor the sheet supplies an id.
const DefaultClientID = "11AA"

// Sheet column names. These must match the spreadsheet header row exactly.
const (
	ColumnClientID          = "UNIQUE CLIENT ID"
	ColumnClientName        = "CLIENT NAME"
	ColumnTier              = "TIER"
	ColumnRegion            = "REGION"
	ColumnDeliveryFrequency = "DELIVERY FREQUENCY"
	ColumnEmail             = "EMAIL ADDRESS"
	ColumnMainContent       = "MAIN STRUCTURED CONTENT"
	ColumnFinancialStats    = "CURRENT FINANCIAL STATS"
	ColumnHistoricalImpacts = "HISTORICAL FINANCIAL IMPACTS"
	ColumnExecutiveSummary  = "EXECUTIVE SUMMARY"
	ColumnDetection         = "DETECTION"
	ColumnComplianceAlerts  = "COMPLIANCE ALERTS"
	ColumnRiskAnalysis      = "RISK ANALYSIS"
	ColumnRegulatoryUpdates = "REGULATORY UPDATES"
	ColumnUrgency           = "URGENCY"
	ColumnAlertLevel        = "ALERT LEVEL"
	ColumnDateScraped       = "DATE SCRAPED"
	ColumnStatus            = "STATUS"
	ColumnTypeOfUpdate      = "TYPE OF UPDATE"
	ColumnDateDelivered     = "DATE DELIVERED"
	ColumnEducationalGuide  = "EDUCATIONAL GUIDE AND TOOLS"
)

// Alert levels understood by presentation code. The resolver passes any
// other value through untouched.
const (
	AlertGreen = "GREEN"
	AlertAmber = "AMBER"
	AlertRed   = "RED"
)

// ClientRecord is the resolved view of one client. It is built once per
// resolution and never mutated afterwards.
type ClientRecord struct {
	ClientID          string `json:"client_id"`
	ClientName        string `json:"client_name"`
	Tier              string `json:"tier"`
	Region            string `json:"region"`
	DeliveryFrequency string `json:"delivery_frequency"`
	Email             string `json:"email"`
	MainContent       string `json:"main_content"`
	FinancialStats    string `json:"financial_stats"`
	HistoricalImpacts string `json:"historical_impacts"`
	ExecutiveSummary  string `json:"executive_summary"`
	Detection         string `json:"detection"`
	ComplianceAlerts  string `json:"compliance_alerts"`
	RiskAnalysis      string `json:"risk_analysis"`
	RegulatoryUpdates string `json:"regulatory_updates"`
	Urgency           string `json:"urgency"`
	AlertLevel        string `json:"alert_level"`
	Status            string `json:"status"`
	DateScraped       string `json:"date_scraped"`
	DateDelivered     string `json:"date_delivered"`
	TypeOfUpdate      string `json:"type_of_update"`
	EducationalGuide  string `json:"educational_guide"`
}

// column binds a sheet column to a record field and its default.
type column struct {
	field func(*ClientRecord) *string
	def   func(clientID, today string) string
	name  string
}

func literal(v string) func(string, string) string {
	return func(string, string) string { return v }
}

func today(_, t string) string { return t }

// columns is the contract, in sheet order.
var columns = []column{
	{name: ColumnClientID, field: func(r *ClientRecord) *string { return &r.ClientID }, def: func(id, _ string) string {
		if id == "" {
			return DefaultClientID
		}
		return id
	}},
	{name: ColumnClientName, field: func(r *ClientRecord) *string { return &r.ClientName }, def: literal("Client Name")},
	{name: ColumnTier, field: func(r *ClientRecord) *string { return &r.Tier }, def: literal("Standard")},
	{name: ColumnRegion, field: func(r *ClientRecord) *string { return &r.Region }, def: literal("Region")},
	{name: ColumnDeliveryFrequency, field: func(r *ClientRecord) *string { return &r.DeliveryFrequency }, def: literal("Monthly")},
	{name: ColumnEmail, field: func(r *ClientRecord) *string { return &r.Email }, def: literal("")},
	{name: ColumnMainContent, field: func(r *ClientRecord) *string { return &r.MainContent }, def: literal("")},
	{name: ColumnFinancialStats, field: func(r *ClientRecord) *string { return &r.FinancialStats }, def: literal("")},
	{name: ColumnHistoricalImpacts, field: func(r *ClientRecord) *string { return &r.HistoricalImpacts }, def: literal("")},
	{name: ColumnExecutiveSummary, field: func(r *ClientRecord) *string { return &r.ExecutiveSummary }, def: literal("")},
	{name: ColumnDetection, field: func(r *ClientRecord) *string { return &r.Detection }, def: literal("")},
	{name: ColumnComplianceAlerts, field: func(r *ClientRecord) *string { return &r.ComplianceAlerts }, def: literal("")},
	{name: ColumnRiskAnalysis, field: func(r *ClientRecord) *string { return &r.RiskAnalysis }, def: literal("")},
	{name: ColumnRegulatoryUpdates, field: func(r *ClientRecord) *string { return &r.RegulatoryUpdates }, def: literal("")},
	{name: ColumnUrgency, field: func(r *ClientRecord) *string { return &r.Urgency }, def: literal("")},
	{name: ColumnAlertLevel, field: func(r *ClientRecord) *string { return &r.AlertLevel }, def: literal(AlertGreen)},
	{name: ColumnDateScraped, field: func(r *ClientRecord) *string { return &r.DateScraped }, def: today},
	{name: ColumnStatus, field: func(r *ClientRecord) *string { return &r.Status }, def: literal("Active")},
	{name: ColumnTypeOfUpdate, field: func(r *ClientRecord) *string { return &r.TypeOfUpdate }, def: literal("")},
	{name: ColumnDateDelivered, field: func(r *ClientRecord) *string { return &r.DateDelivered }, def: today},
	{name: ColumnEducationalGuide, field: func(r *ClientRecord) *string { return &r.EducationalGuide }, def: literal("")},
}

// Columns returns the sheet column names in contract order.
func Columns() []string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.name
	}
	return names
}

// FromValues maps a header-keyed row onto a ClientRecord. Columns that are
// present keep their value even when empty; absent columns take their default.
// clientID, when non-empty, replaces the generic default for the id column.
func FromValues(values map[string]string, clientID string, now time.Time) ClientRecord {
	var r ClientRecord
	date := now.Format(DateLayout)
	for _, c := range columns {
		v, ok := values[c.name]
		if !ok {
			v = c.def(clientID, date)
		}
		*c.field(&r) = v
	}
	return r
}

// Values returns the record keyed by sheet column.
func (r ClientRecord) Values() map[string]string {
	out := make(map[string]string, len(columns))
	for _, c := range columns {
		out[c.name] = *c.field(&r)
	}
	return out
}

// Get returns the value of a sheet column, or false for an unknown column.
func (r ClientRecord) Get(column string) (string, bool) {
	for _, c := range columns {
		if c.name == column {
			return *c.field(&r), true
		}
	}
	return "", false
}

// Zip pads row with empty strings to the header length and pairs each header
// with its value. Trailing values without a header are dropped; a repeated
// header keeps the last value.
func Zip(headers, row []string) map[string]string {
	padded := make([]string, max(len(headers), len(row)))
	copy(padded, row)
	out := make(map[string]string, len(headers))
	for i, h := range headers {
		out[h] = padded[i]
	}
	return out
}

// KnownAlertLevel reports whether level is one of GREEN, AMBER or RED.
func KnownAlertLevel(level string) bool {
	switch level {
	case AlertGreen, AlertAmber, AlertRed:
		return true
	default:
		return false
	}
}
