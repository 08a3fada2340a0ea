package correlation

import (
	"MarketPulse/internal/domain/models"
)

var typeCategories = map[models.IncidentType]models.EventCategory{
	models.IncidentLayoffs:        models.CategoryCompanySpecific,
	models.IncidentLawsuit:        models.CategoryCompanySpecific,
	models.IncidentRegulatory:     models.CategoryCompanySpecific,
	models.IncidentProductRecall:  models.CategoryCompanySpecific,
	models.IncidentGuidanceCut:    models.CategoryCompanySpecific,
	models.IncidentGuidanceRaise:  models.CategoryCompanySpecific,
	models.IncidentEarningsBeat:   models.CategoryCompanySpecific,
	models.IncidentEarningsMiss:   models.CategoryCompanySpecific,
	models.IncidentMNA:            models.CategoryCompanySpecific,
	models.IncidentExecChange:     models.CategoryCompanySpecific,
	models.IncidentDowngrade:      models.CategoryCompanySpecific,
	models.IncidentUpgrade:        models.CategoryCompanySpecific,
	models.IncidentSecurityBreach: models.CategoryCompanySpecific,

	models.IncidentEconomicIndicator: models.CategoryMacroEconomic,
	models.IncidentCommodityShift:    models.CategoryMacroEconomic,

	models.IncidentClimateEvent: models.CategoryEnvironmental,
	models.IncidentPandemic:     models.CategoryEnvironmental,

	models.IncidentTechnologyShift: models.CategoryTechnological,

	models.IncidentGeopolitical:     models.CategoryGeopolitical,
	models.IncidentRegulationChange: models.CategoryGeopolitical,

	models.IncidentConsumerTrend: models.CategorySocial,

	models.IncidentSupplyChain: models.CategorySectorWide,
}

// CategorizeEvent maps an incident type to its event category; unknown types
// default to company_specific.
func CategorizeEvent(t models.IncidentType) models.EventCategory {
	if c, ok := typeCategories[t]; ok {
		return c
	}
	return models.CategoryCompanySpecific
}

var immediateTypes = map[models.IncidentType]bool{
	models.IncidentEarningsMiss:   true,
	models.IncidentEarningsBeat:   true,
	models.IncidentGuidanceCut:    true,
	models.IncidentGuidanceRaise:  true,
	models.IncidentDowngrade:      true,
	models.IncidentUpgrade:        true,
	models.IncidentSecurityBreach: true,
	models.IncidentProductRecall:  true,
}

var longTermTypes = map[models.IncidentType]bool{
	models.IncidentTechnologyShift:  true,
	models.IncidentClimateEvent:     true,
	models.IncidentRegulationChange: true,
	models.IncidentConsumerTrend:    true,
}

// DetermineTimeHorizon maps an incident type to the horizon its market
// impact is expected to play out over.
func DetermineTimeHorizon(t models.IncidentType) models.TimeHorizon {
	switch {
	case immediateTypes[t]:
		return models.HorizonImmediate
	case longTermTypes[t]:
		return models.HorizonLongTerm
	default:
		return models.HorizonShortTerm
	}
}
