package entity

import "fmt"

// LicenseType clasificación regulatoria de la licencia.
type LicenseType string

const (
	LicenseTypeEnvironmental LicenseType = "ENVIRONMENTAL"
	LicenseTypeSafety        LicenseType = "SAFETY"
	LicenseTypeHealth        LicenseType = "HEALTH"
	LicenseTypeFire          LicenseType = "FIRE"
	LicenseTypeConstruction  LicenseType = "CONSTRUCTION"
	LicenseTypeOperating     LicenseType = "OPERATING"
	LicenseTypeWaste         LicenseType = "WASTE"
	LicenseTypeChemical      LicenseType = "CHEMICAL"
	LicenseTypeRadiation     LicenseType = "RADIATION"
	LicenseTypeTransport     LicenseType = "TRANSPORT"
	LicenseTypeElectrical    LicenseType = "ELECTRICAL"
	LicenseTypeOther         LicenseType = "OTHER"
)

var licenseTypePrefixes = map[LicenseType]string{
	LicenseTypeEnvironmental: "ENV",
	LicenseTypeSafety:        "SAF",
	LicenseTypeHealth:        "HLT",
	LicenseTypeFire:          "FIR",
	LicenseTypeConstruction:  "CON",
	LicenseTypeOperating:     "OPR",
	LicenseTypeWaste:         "WST",
	LicenseTypeChemical:      "CHM",
	LicenseTypeRadiation:     "RAD",
	LicenseTypeTransport:     "TRN",
	LicenseTypeElectrical:    "ELC",
	LicenseTypeOther:         "OTH",
}

// IsValid informa si el tipo pertenece a la enumeración cerrada.
func (t LicenseType) IsValid() bool {
	_, ok := licenseTypePrefixes[t]
	return ok
}

// Prefix prefijo de 3 letras usado en el número de licencia.
func (t LicenseType) Prefix() string {
	if p, ok := licenseTypePrefixes[t]; ok {
		return p
	}
	return "OTH"
}

// FormatLicenseNumber arma el número visible: {Prefijo}-{AA}-{secuencia:4}.
// La secuencia es por tipo y año calendario; la asigna la capa de persistencia.
func FormatLicenseNumber(t LicenseType, year, sequence int) string {
	return fmt.Sprintf("%s-%02d-%04d", t.Prefix(), year%100, sequence)
}

// Priority prioridad de gestión de la licencia.
type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

// IsValid informa si la prioridad es conocida.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// RiskLevel nivel de riesgo de la actividad licenciada.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// IsValid informa si el nivel de riesgo es conocido.
func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return true
	}
	return false
}
