package labeling

import (
	"regexp"
	"strings"
)

// regexFunc votes `vote` when its pattern matches the lowercased item text
// and abstains otherwise.
type regexFunc struct {
	name    string
	pattern *regexp.Regexp
	vote    Vote
}

func (f *regexFunc) Name() string { return f.name }

func (f *regexFunc) Evaluate(text string) Vote {
	if f.pattern.MatchString(strings.ToLower(text)) {
		return f.vote
	}
	return Abstain
}

// conjFunc votes `vote` only when both of its patterns match; otherwise it
// abstains.
type conjFunc struct {
	name   string
	first  *regexp.Regexp
	second *regexp.Regexp
	vote   Vote
}

func (f *conjFunc) Name() string { return f.name }

func (f *conjFunc) Evaluate(text string) Vote {
	lower := strings.ToLower(text)
	if f.first.MatchString(lower) && f.second.MatchString(lower) {
		return f.vote
	}
	return Abstain
}

// Builtin patterns target Dutch regional news. Positive voters look for SME
// and sector vocabulary; negative voters look for topics that crowd out SME
// relevance (national politics, accidents, sports). Patterns are compiled
// once at package init.
var (
	reExplicitSME = regexp.MustCompile(`\b(` +
		`mkb|midden- en kleinbedrijf|kmo|kleine onderneming|kleine bedrijven|` +
		`small and medium enterprise|` +
		`mkb-ondernemers?|mkb-bedrijven?|mkb-sector|mkb'er(s)?|` +
		`ondernemersvereniging|ondernemersloket` +
		`)\b`)

	reGenericBedrijf = regexp.MustCompile(`\b(` +
		`(klein(e|er)e?\s+)?bedrijf(fen)?|onderneming(en)?|zaak|zaken|` +
		`ondernemingshuis|ondernemersloket|bedrijfsleven|` +
		`organisatie(s)?\s+(in\s+de\s+)?(regio|provincie|gemeente)|` +
		`bedrijfstak|bedrijfssector` +
		`)\b`)

	reSectorTerms = regexp.MustCompile(`\b(` +
		// Agriculture
		`landbouw|akkerbouw|tuinbouw|bosbouw|visserij|fishing|forestry|agriculture|farm(er|ing)|greenhouse|kwekerij|veeteelt|pluimvee` +
		`|` +
		// Mining
		`delfstoffenwinning|mining|mijnbouw|groeve` +
		`|` +
		// Industry / energy / water / waste
		`industrie|fabriek(en)?|manufacturing|produceren|productiebedrijf|energievoorziening|energy supply|energiebedrijf` +
		`|waterbedrijf|watermaatschappij|afvalbeheer|waste management|recycling|milieudienst` +
		`|` +
		// Construction
		`bouwnijverheid|bouwbedrijf|aannemer(s)?|installatiebedrijf|constructie|bouwsector|bouwvakker` +
		`|` +
		// Trade / retail
		`handel|detailhandel|groothandel|winkel|shop|store|supermarkt|bakker(ij)?|slager(ij)?|kapsalon|drogisterij|webwinkel|e-commerce` +
		`|` +
		// Transport / storage
		`vervoer|transport(bedrijf)?|logistiek|opslag|magazijn|koerier(s)?|distributiecentrum|transport and storage` +
		`|` +
		// Hospitality
		`horeca|restaurant|café|bar|hotel|snackbar|catering|hospitality` +
		`|` +
		// Info & communication, incl. cybersecurity
		`informatie en communicatie|ict|it|softwarebedrijf|software company|telecom|mediabedrijf|uitgeverij|communicatiebureau` +
		`|cyberbedrijf|cybersecurity|cyberweerbaarheid|digitale weerbaarheid|digitale veiligheid|informatiebeveiliging|` +
		`beveiligingsbedrijf|veilig ondernemen|cybercrime|phishing|ransomware` +
		`|` +
		// Financial
		`financiële dienstverlening|boekhoud(kantoor)?|accountantskantoor|administratiekantoor|verzekeringskantoor` +
		`|` +
		// Real estate
		`makelaar|vastgoed|real estate|woningcorporatie|property rental|onroerend goed` +
		`|` +
		// Specialist business services
		`adviesbureau|consultancy|marketingbureau|ingenieursbureau|juridisch advies|advocatenkantoor|specialist business services` +
		`|` +
		// Staffing and facility services
		`uitzendbureau|detacheringsbureau|schoonmaakbedrijf|beveiligingsbedrijf|facility services` +
		`|` +
		// Education / health / culture
		`onderwijsinstelling|basisschool|middelbare school|kinderopvang|school|training|opleidingsinstituut` +
		`|gezondheidszorg|welzijnszorg|praktijk|kliniek|ziekenhuis|fysiotherapie|zorginstelling` +
		`|sportschool|fitnesscentrum|theater|museum|vereniging|cultureel centrum|recreatiebedrijf` +
		`)\b`)

	reEntrepreneurship = regexp.MustCompile(`\b(ondernemer|ondernemers|zelfstandige|zelfstandigen|zzp|start-?up|startups?|ondernemerschap|freelancer|freelancers|bedrijf starten|bedrijf oprichten)\b`)

	reIntlPolitics = regexp.MustCompile(`\b(uk|starmer|russische aanval|v\.n\.|trump|europa|oorlog|russia|usa|united states|nato)\b`)

	reDomesticPolitics = regexp.MustCompile(`\b(politiek|partij|stemmen|verkiezing|minister|parlement|partijleider|raad|gemeente|beleid)\b`)

	reGovernment = regexp.MustCompile(`\b(` +
		`ministerie|departement|justitie|veiligheid|algemene\s+bestuursdienst|` +
		`directeur|directie|benoemd|benoeming|aanstelling|` +
		`functie|carrière|vacature|nieuwe\s+positie|chief|officer|` +
		`bestuurder|leidinggevende|manager|plaatsvervangend` +
		`)\b`)

	reAccidentsCrime = regexp.MustCompile(`\b(ongeluk|drama|ramp|brand|dood|moord|criminaliteit|aanrijding|botsing|explosie|verkrachting|rellen)\b`)

	reCompanyTerm = regexp.MustCompile(`\b(mkb|bedrijf|ondernemer|zaak|organisatie)\b`)
	reCyberTerm   = regexp.MustCompile(`\b(cyber|digitale|phishing|ransomware|weerbaarheid|veiligheid|cybercrime|hack)\b`)

	reSportsEntertainment = regexp.MustCompile(`\b(honkbal|voetbal|sport|theater|film|serie|muziek|concert|festival|wedstrijden)\b`)
)

// Builtin returns the default function set for Dutch regional news. Each call
// returns a fresh slice so callers can append or remove functions without
// affecting others; the underlying functions are stateless and shared.
func Builtin() []Func {
	return []Func{
		&regexFunc{name: "explicit_sme", pattern: reExplicitSME, vote: SME},
		&regexFunc{name: "generic_bedrijf", pattern: reGenericBedrijf, vote: SME},
		&regexFunc{name: "sector_terms", pattern: reSectorTerms, vote: SME},
		&regexFunc{name: "entrepreneurship", pattern: reEntrepreneurship, vote: SME},
		&regexFunc{name: "international_politics", pattern: reIntlPolitics, vote: NotSME},
		&regexFunc{name: "accidents_crime", pattern: reAccidentsCrime, vote: NotSME},
		&regexFunc{name: "domestic_politics", pattern: reDomesticPolitics, vote: NotSME},
		&conjFunc{name: "sme_cybercrime", first: reCompanyTerm, second: reCyberTerm, vote: SME},
		&regexFunc{name: "sports_entertainment", pattern: reSportsEntertainment, vote: NotSME},
		&regexFunc{name: "government_only", pattern: reGovernment, vote: NotSME},
	}
}
