package classify

import (
	"regexp"

	"MarketPulse/internal/domain/models"
)

// rule maps a pattern to an incident type and category. Rules are evaluated
// exhaustively; the winner is picked by match score, not list order.
type rule struct {
	match    *regexp.Regexp
	typ      models.IncidentType
	category models.EventCategory
}

func mustRule(expr string, typ models.IncidentType, cat models.EventCategory) rule {
	return rule{match: regexp.MustCompile(`(?i)` + expr), typ: typ, category: cat}
}

var rules = []rule{
	// Company-specific events
	mustRule(`layoff|job cut|workforce reduction|downsizing`, models.IncidentLayoffs, models.CategoryCompanySpecific),
	mustRule(`lawsuit|sues|sued|settlement|litigation`, models.IncidentLawsuit, models.CategoryCompanySpecific),
	mustRule(`sec|doj|ftc|regulat|fine|penalt|antitrust`, models.IncidentRegulatory, models.CategoryCompanySpecific),
	mustRule(`recall|product defect|safety issue`, models.IncidentProductRecall, models.CategoryCompanySpecific),
	mustRule(`guidance (cut|lower|reduce|down|slash)`, models.IncidentGuidanceCut, models.CategoryCompanySpecific),
	mustRule(`guidance (raise|increase|up|boost)`, models.IncidentGuidanceRaise, models.CategoryCompanySpecific),
	mustRule(`beats? (expectations|estimates|earnings|revenue|eps)`, models.IncidentEarningsBeat, models.CategoryCompanySpecific),
	mustRule(`miss(es|ed)? (expectations|estimates|earnings|revenue|eps)`, models.IncidentEarningsMiss, models.CategoryCompanySpecific),
	mustRule(`acquire|acquisition|merger|m&a|buyout|takeover|deal`, models.IncidentMNA, models.CategoryCompanySpecific),
	mustRule(`appoints|steps down|resigns|ceo|cfo|executive|departure`, models.IncidentExecChange, models.CategoryCompanySpecific),
	mustRule(`downgrade|cut rating|reduce target`, models.IncidentDowngrade, models.CategoryCompanySpecific),
	mustRule(`upgrade|raise rating|increase target`, models.IncidentUpgrade, models.CategoryCompanySpecific),
	mustRule(`breach|hack|cyber|ransomware|data leak`, models.IncidentSecurityBreach, models.CategoryCompanySpecific),

	// Macro/environmental events
	mustRule(`pandemic|covid|virus|outbreak|epidemic|quarantine|lockdown`, models.IncidentPandemic, models.CategoryEnvironmental),
	mustRule(`earthquake|hurricane|tornado|wildfire|flood|tsunami|disaster`, models.IncidentClimateEvent, models.CategoryEnvironmental),
	mustRule(`climate change|global warming|carbon|emissions|renewable`, models.IncidentClimateEvent, models.CategoryEnvironmental),

	// Economic indicators
	mustRule(`inflation|cpi|ppi|consumer price|producer price`, models.IncidentEconomicIndicator, models.CategoryMacroEconomic),
	mustRule(`rate hike|interest rate|federal reserve|fed|fomc|monetary policy`, models.IncidentEconomicIndicator, models.CategoryMacroEconomic),
	mustRule(`gdp|recession|economic growth|unemployment|jobs report`, models.IncidentEconomicIndicator, models.CategoryMacroEconomic),
	mustRule(`dollar|currency|forex|exchange rate`, models.IncidentEconomicIndicator, models.CategoryMacroEconomic),

	// Technology shifts
	mustRule(`artificial intelligence|ai boom|machine learning|chatgpt|generative ai`, models.IncidentTechnologyShift, models.CategoryTechnological),
	mustRule(`blockchain|crypto|bitcoin|ethereum|defi|web3`, models.IncidentTechnologyShift, models.CategoryTechnological),
	mustRule(`metaverse|virtual reality|vr|augmented reality|ar`, models.IncidentTechnologyShift, models.CategoryTechnological),
	mustRule(`quantum computing|5g|6g|edge computing`, models.IncidentTechnologyShift, models.CategoryTechnological),

	// Geopolitical events
	mustRule(`war|conflict|invasion|military|sanctions|embargo`, models.IncidentGeopolitical, models.CategoryGeopolitical),
	mustRule(`trade war|tariff|trade deal|export ban|import restriction`, models.IncidentGeopolitical, models.CategoryGeopolitical),
	mustRule(`election|political|government|policy change|legislation`, models.IncidentGeopolitical, models.CategoryGeopolitical),

	// Supply chain events
	mustRule(`supply chain|shortage|logistics|shipping|port|container`, models.IncidentSupplyChain, models.CategorySectorWide),
	mustRule(`chip shortage|semiconductor supply|component shortage`, models.IncidentSupplyChain, models.CategorySectorWide),

	// Commodity shifts
	mustRule(`oil price|crude|wti|brent|energy price`, models.IncidentCommodityShift, models.CategoryMacroEconomic),
	mustRule(`gold|silver|copper|metal price|commodity`, models.IncidentCommodityShift, models.CategoryMacroEconomic),
	mustRule(`wheat|corn|agriculture|food price`, models.IncidentCommodityShift, models.CategoryMacroEconomic),

	// Consumer trends
	mustRule(`consumer spending|retail sales|e-commerce growth|online shopping`, models.IncidentConsumerTrend, models.CategorySocial),
	mustRule(`work from home|remote work|hybrid work|return to office`, models.IncidentConsumerTrend, models.CategorySocial),
	mustRule(`sustainable|esg|green|eco-friendly|ethical`, models.IncidentConsumerTrend, models.CategorySocial),

	// Regulation changes
	mustRule(`new regulation|regulatory change|compliance|law change|bill passed`, models.IncidentRegulationChange, models.CategoryGeopolitical),
	mustRule(`tax reform|tax change|subsidy|incentive`, models.IncidentRegulationChange, models.CategoryGeopolitical),
}

// Magnitude keyword sweeps, applied in priority order critical > high > low;
// medium is the default when none match.
var (
	criticalRe = regexp.MustCompile(`(?i)critical|emergency|catastrophic|collapse`)
	highRe     = regexp.MustCompile(`(?i)massive|major|significant|crisis|crash|surge|plunge`)
	lowRe      = regexp.MustCompile(`(?i)minor|small|slight|modest`)
)
