package models

import "time"

// DemoRecord returns the fixed record served whenever live data is unavailable.
// Both date fields carry the day of now.
func DemoRecord(now time.Time) ClientRecord {
	date := now.Format(DateLayout)
	return ClientRecord{
		ClientID:          DefaultClientID,
		ClientName:        "Elite Pharmaceutical Corp",
		Tier:              "Professional",
		Region:            "Northeast",
		DeliveryFrequency: "Weekly",
		Email:             "contact@elitepharma.com",
		MainContent:       "Comprehensive compliance monitoring and regulatory intelligence.",
		FinancialStats:    "$2.5M annual savings, $450K compliance investment",
		HistoricalImpacts: "ROI: 556% over 18 months",
		ExecutiveSummary:  "Strong compliance performance with proactive risk management framework delivering exceptional results.",
		Detection:         "Automated monitoring active",
		ComplianceAlerts:  "No critical alerts, 3 items for review",
		RiskAnalysis:      "Low risk profile, excellent controls",
		RegulatoryUpdates: "USP 797 revision Q2 2024, FDA guidance update March 2024",
		Urgency:           "Standard",
		AlertLevel:        AlertGreen,
		Status:            "Active",
		DateScraped:       date,
		DateDelivered:     date,
		TypeOfUpdate:      "Routine Monitoring",
		EducationalGuide:  "Training materials updated",
	}
}
