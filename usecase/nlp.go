package usecase

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/onlyWebstar/travel-bot/config"
	domainNLP "github.com/onlyWebstar/travel-bot/domains/nlp"
	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

type destinationEntry struct {
	alias string
	code  string
}

// destinationTable maps city-name variants to IATA airport codes. Declaration
// order matters: fuzzy tie-breaks pick the first entry, so keep it stable.
var destinationTable = []destinationEntry{
	{"lagos", "LOS"}, {"los", "LOS"}, {"lagos nigeria", "LOS"},
	{"london", "LHR"}, {"lon", "LHR"}, {"london uk", "LHR"},
	{"paris", "CDG"}, {"paris france", "CDG"},
	{"new york", "JFK"}, {"nyc", "JFK"}, {"newyork", "JFK"}, {"new york city", "JFK"},
	{"los angeles", "LAX"}, {"la", "LAX"}, {"losangeles", "LAX"},
	{"tokyo", "NRT"}, {"tokyo japan", "NRT"},
	{"dubai", "DXB"}, {"dubai uae", "DXB"},
	{"abuja", "ABV"}, {"abuja nigeria", "ABV"},
	{"port harcourt", "PHC"}, {"ph", "PHC"}, {"portharcourt", "PHC"},
	{"accra", "ACC"}, {"accra ghana", "ACC"},
	{"johannesburg", "JNB"}, {"joburg", "JNB"}, {"jnb", "JNB"},
	{"amsterdam", "AMS"}, {"amsterdam netherlands", "AMS"},
	{"berlin", "BER"}, {"berlin germany", "BER"},
	{"madrid", "MAD"}, {"madrid spain", "MAD"},
	{"rome", "FCO"}, {"rome italy", "FCO"},
	{"istanbul", "IST"}, {"istanbul turkey", "IST"},
	{"singapore", "SIN"}, {"singapore city", "SIN"},
	{"hong kong", "HKG"}, {"hongkong", "HKG"},
	{"bangkok", "BKK"}, {"bangkok thailand", "BKK"},
	{"sydney", "SYD"}, {"sydney australia", "SYD"},
	{"melbourne", "MEL"}, {"melbourne australia", "MEL"},
	{"toronto", "YYZ"}, {"toronto canada", "YYZ"},
	{"vancouver", "YVR"}, {"vancouver canada", "YVR"},
	{"chicago", "ORD"}, {"chicago usa", "ORD"},
	{"miami", "MIA"}, {"miami usa", "MIA"},
	{"atlanta", "ATL"}, {"atlanta usa", "ATL"},
	{"boston", "BOS"}, {"boston usa", "BOS"},
	{"san francisco", "SFO"}, {"sf", "SFO"}, {"sanfrancisco", "SFO"},
	{"washington", "IAD"}, {"dc", "IAD"}, {"washington dc", "IAD"},
	{"lisbon", "LIS"}, {"lisbon portugal", "LIS"},
	{"barcelona", "BCN"}, {"barcelona spain", "BCN"},
	{"munich", "MUC"}, {"munich germany", "MUC"},
	{"zurich", "ZRH"}, {"zurich switzerland", "ZRH"},
	{"vienna", "VIE"}, {"vienna austria", "VIE"},
	{"prague", "PRG"}, {"prague czech", "PRG"},
	{"athens", "ATH"}, {"athens greece", "ATH"},
	{"cairo", "CAI"}, {"cairo egypt", "CAI"},
	{"nairobi", "NBO"}, {"nairobi kenya", "NBO"},
	{"cape town", "CPT"}, {"capetown", "CPT"},
	{"casablanca", "CMN"}, {"casablanca morocco", "CMN"},
	{"addis ababa", "ADD"}, {"addisababa", "ADD"},
	{"kigali", "KGL"}, {"kigali rwanda", "KGL"},
	{"dar es salaam", "DAR"}, {"daressalaam", "DAR"},
	{"manchester", "MAN"}, {"manchester uk", "MAN"},
	{"edinburgh", "EDI"}, {"edinburgh uk", "EDI"},
	{"glasgow", "GLA"}, {"glasgow uk", "GLA"},
	{"frankfurt", "FRA"}, {"frankfurt germany", "FRA"},
	{"milan", "MXP"}, {"milan italy", "MXP"},
	{"venice", "VCE"}, {"venice italy", "VCE"},
	{"dublin", "DUB"}, {"dublin ireland", "DUB"},
	{"brussels", "BRU"}, {"brussels belgium", "BRU"},
	{"copenhagen", "CPH"}, {"copenhagen denmark", "CPH"},
	{"stockholm", "ARN"}, {"stockholm sweden", "ARN"},
	{"oslo", "OSL"}, {"oslo norway", "OSL"},
	{"helsinki", "HEL"}, {"helsinki finland", "HEL"},
	{"moscow", "SVO"}, {"moscow russia", "SVO"},
	{"warsaw", "WAW"}, {"warsaw poland", "WAW"},
	{"budapest", "BUD"}, {"budapest hungary", "BUD"},
	{"bucharest", "OTP"}, {"bucharest romania", "OTP"},
	{"kuala lumpur", "KUL"}, {"kl", "KUL"}, {"kualalumpur", "KUL"},
	{"jakarta", "CGK"}, {"jakarta indonesia", "CGK"},
	{"manila", "MNL"}, {"manila philippines", "MNL"},
	{"delhi", "DEL"}, {"new delhi", "DEL"}, {"delhi india", "DEL"},
	{"mumbai", "BOM"}, {"bombay", "BOM"}, {"mumbai india", "BOM"},
	{"bangalore", "BLR"}, {"bengaluru", "BLR"},
	{"chennai", "MAA"}, {"madras", "MAA"},
	{"kolkata", "CCU"}, {"calcutta", "CCU"},
	{"hyderabad", "HYD"}, {"hyderabad india", "HYD"},
	{"karachi", "KHI"}, {"karachi pakistan", "KHI"},
	{"lahore", "LHE"}, {"lahore pakistan", "LHE"},
	{"dhaka", "DAC"}, {"dhaka bangladesh", "DAC"},
	{"colombo", "CMB"}, {"colombo sri lanka", "CMB"},
	{"kathmandu", "KTM"}, {"kathmandu nepal", "KTM"},
	{"shanghai", "PVG"}, {"shanghai china", "PVG"},
	{"beijing", "PEK"}, {"beijing china", "PEK"},
	{"guangzhou", "CAN"}, {"guangzhou china", "CAN"},
	{"seoul", "ICN"}, {"seoul korea", "ICN"},
	{"taipei", "TPE"}, {"taipei taiwan", "TPE"},
	{"hanoi", "HAN"}, {"hanoi vietnam", "HAN"},
	{"ho chi minh", "SGN"}, {"saigon", "SGN"}, {"hochiminh", "SGN"},
	{"phnom penh", "PNH"}, {"phnompenh", "PNH"},
	{"yangon", "RGN"}, {"rangoon", "RGN"},
	{"tehran", "IKA"}, {"tehran iran", "IKA"},
	{"riyadh", "RUH"}, {"riyadh saudi", "RUH"},
	{"jeddah", "JED"}, {"jeddah saudi", "JED"},
	{"doha", "DOH"}, {"doha qatar", "DOH"},
	{"abu dhabi", "AUH"}, {"abudhabi", "AUH"},
	{"muscat", "MCT"}, {"muscat oman", "MCT"},
	{"kuwait", "KWI"}, {"kuwait city", "KWI"},
	{"beirut", "BEY"}, {"beirut lebanon", "BEY"},
	{"amman", "AMM"}, {"amman jordan", "AMM"},
	{"tel aviv", "TLV"}, {"telaviv", "TLV"},
}

// destinationIndex backs the exact-match path.
var destinationIndex = func() map[string]string {
	idx := make(map[string]string, len(destinationTable))
	for _, e := range destinationTable {
		idx[e.alias] = e.code
	}
	return idx
}()

var (
	flightKeywords = []string{"flight", "fly", "airline", "airport", "ticket", "book flight", "flights"}
	hotelKeywords  = []string{"hotel", "stay", "accommodation", "lodging", "room", "book hotel", "hostel"}

	// Filler phrases stripped before location extraction to reduce false
	// slot captures.
	noisePhrases = []string{
		"cheap", "expensive", "direct", "nonstop", "return", "round trip",
		"one way", "business class", "economy", "first class",
	}

	stopWords = map[string]bool{"a": true, "the": true, "and": true, "or": true, "be": true}
)

// Location patterns ordered from most to least specific. The first one that
// matches wins; a two-group match yields (origin, destination).
var locationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`from\s+([a-z\s]+?)\s+to\s+([a-z\s]+?)(?:\s+on|\s+for|\s+in|\s+at|$)`),
	regexp.MustCompile(`flights?\s+to\s+([a-z\s]+?)(?:\s+from|\s+on|\s+for|\s+tomorrow|\s+today|$)`),
	regexp.MustCompile(`fly\s+to\s+([a-z\s]+?)(?:\s+from|\s+on|\s+for|\s+tomorrow|\s+today|$)`),
	regexp.MustCompile(`hotels?\s+in\s+([a-z\s]+?)(?:\s+for|\s+on|\s+from|$)`),
	regexp.MustCompile(`stay\s+in\s+([a-z\s]+?)(?:\s+for|\s+on|$)`),
	regexp.MustCompile(`accommodation\s+in\s+([a-z\s]+?)(?:\s+for|\s+on|$)`),
	regexp.MustCompile(`to\s+([a-z\s]+?)(?:\s+from|\s+on|\s+for|\s+tomorrow|\s+today|$)`),
	regexp.MustCompile(`in\s+([a-z\s]+?)(?:\s+for|\s+on|$)`),
}

var (
	durationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`for\s+(\d+)\s+night`),
		regexp.MustCompile(`for\s+(\d+)\s+days`),
		regexp.MustCompile(`(\d+)\s+night`),
		regexp.MustCompile(`(\d+)\s+day`),
	}
	guestPatterns = []*regexp.Regexp{
		regexp.MustCompile(`for\s+(\d+)\s+guest`),
		regexp.MustCompile(`for\s+(\d+)\s+people`),
		regexp.MustCompile(`for\s+(\d+)\s+person`),
		regexp.MustCompile(`(\d+)\s+guest`),
		regexp.MustCompile(`(\d+)\s+people`),
		regexp.MustCompile(`(\d+)\s+person`),
	}
	roomPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d+)\s+room`),
		regexp.MustCompile(`for\s+(\d+)\s+room`),
	}
)

var weekdayNames = []struct {
	name string
	day  time.Weekday
}{
	{"monday", time.Monday}, {"tuesday", time.Tuesday}, {"wednesday", time.Wednesday},
	{"thursday", time.Thursday}, {"friday", time.Friday}, {"saturday", time.Saturday},
	{"sunday", time.Sunday},
}

var monthNames = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June, "july": time.July,
	"august": time.August, "september": time.September, "october": time.October,
	"november": time.November, "december": time.December,
	"jan": time.January, "feb": time.February, "mar": time.March, "apr": time.April,
	"jun": time.June, "jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

const monthAlt = `january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sep|oct|nov|dec`

var (
	reDayOfMonth = regexp.MustCompile(`(\d{1,2})(?:st|nd|rd|th)?\s+of\s+(` + monthAlt + `)`)
	reMonthDay   = regexp.MustCompile(`(` + monthAlt + `)\s+(\d{1,2})(?:st|nd|rd|th)?`)
	reISODate    = regexp.MustCompile(`(\d{4})[-/](\d{1,2})[-/](\d{1,2})`)
)

type nlpService struct {
	now func() time.Time
}

func NewNLPService() domainNLP.INLPUsecase {
	return &nlpService{now: time.Now}
}

// Resolve matches a normalized query against the destination table: exact
// lookup first, then the best fuzzy ratio over every alias. Scores of 90+
// are treated as effectively exact, 70-89 become suggestions, anything
// below is unknown.
func (s *nlpService) Resolve(query string) domainNLP.ResolutionResult {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return domainNLP.ResolutionResult{}
	}

	if code, ok := destinationIndex[query]; ok {
		return domainNLP.ResolutionResult{MatchedAlias: query, Confidence: 100, AirportCode: code}
	}

	// Strictly-greater comparison keeps the first alias in declaration
	// order on ties, so resolution stays deterministic.
	best := destinationEntry{}
	bestScore := 0
	for _, e := range destinationTable {
		if score := fuzzy.Ratio(query, e.alias); score > bestScore {
			best = e
			bestScore = score
		}
	}

	switch {
	case bestScore >= 90:
		return domainNLP.ResolutionResult{MatchedAlias: best.alias, Confidence: 100, AirportCode: best.code}
	case bestScore >= 70:
		return domainNLP.ResolutionResult{MatchedAlias: best.alias, Confidence: bestScore, AirportCode: best.code}
	default:
		return domainNLP.ResolutionResult{}
	}
}

func (s *nlpService) Validate(query string) (bool, string, string) {
	r := s.Resolve(query)
	switch {
	case r.Confidence >= 90:
		return true, r.AirportCode, ""
	case r.Confidence >= 70:
		return false, r.AirportCode, r.MatchedAlias
	default:
		return false, "", ""
	}
}

func (s *nlpService) Extract(text string) domainNLP.ExtractionResult {
	result := domainNLP.ExtractionResult{
		Intent:     domainNLP.IntentUnknown,
		Guests:     1,
		Rooms:      1,
		Confidence: 100,
	}

	text = strings.ToLower(strings.TrimSpace(text))
	result.Intent = classifyIntent(text)

	locations := extractLocations(text)
	s.assignLocations(&result, locations)

	s.extractDates(&result, text)
	extractPartySize(&result, text)

	// An inferred intent with a failed required slot must not leak partial
	// data to the caller.
	if result.Error != "" {
		result.Intent = domainNLP.IntentUnknown
	}

	return result
}

// classifyIntent scans fixed keyword vocabularies, flight first. When
// neither matches, a directional preposition alone implies flight intent.
func classifyIntent(text string) domainNLP.Intent {
	for _, kw := range flightKeywords {
		if strings.Contains(text, kw) {
			return domainNLP.IntentFlight
		}
	}
	for _, kw := range hotelKeywords {
		if strings.Contains(text, kw) {
			return domainNLP.IntentHotel
		}
	}
	if strings.Contains(text, "to ") || strings.Contains(text, "from ") {
		return domainNLP.IntentFlight
	}
	return domainNLP.IntentUnknown
}

func extractLocations(text string) []string {
	for _, phrase := range noisePhrases {
		text = strings.ReplaceAll(text, phrase, "")
	}

	var candidates []string
	for _, pattern := range locationPatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		for _, group := range match[1:] {
			loc := strings.TrimSpace(group)
			if len(loc) > 2 && !stopWords[loc] {
				candidates = append(candidates, loc)
			}
		}
		break // first matching rule wins
	}

	// Collapse duplicates, preserving first-seen order.
	seen := make(map[string]bool, len(candidates))
	unique := candidates[:0]
	for _, loc := range candidates {
		if !seen[loc] {
			seen[loc] = true
			unique = append(unique, loc)
		}
	}
	return unique
}

func (s *nlpService) assignLocations(result *domainNLP.ExtractionResult, locations []string) {
	switch result.Intent {
	case domainNLP.IntentFlight:
		switch {
		case len(locations) >= 2:
			if ok, code, suggestion := s.Validate(locations[0]); ok {
				result.Origin = locations[0]
				result.OriginCode = code
			} else if suggestion != "" {
				result.Origin = suggestion
				result.OriginCode = code
				result.Suggestion = fmt.Sprintf("Did you mean %s?", titleCase(suggestion))
				result.Confidence = 80
			}
			// An unresolved origin is not fatal; the caller can still
			// prompt for it or fill it from preferences.

			if ok, code, suggestion := s.Validate(locations[1]); ok {
				result.Destination = locations[1]
				result.DestinationCode = code
			} else if suggestion != "" {
				result.Destination = suggestion
				result.DestinationCode = code
				result.Suggestion = fmt.Sprintf("Did you mean %s?", titleCase(suggestion))
				result.Confidence = 80
			} else {
				result.Error = fmt.Sprintf("I don't recognize '%s'. Try a major city like London, Paris, or Dubai.", locations[1])
			}

		case len(locations) == 1:
			if ok, code, suggestion := s.Validate(locations[0]); ok {
				result.Origin = config.DefaultOriginCity
				result.OriginCode = config.DefaultOriginCode
				result.Destination = locations[0]
				result.DestinationCode = code
			} else if suggestion != "" {
				result.Origin = config.DefaultOriginCity
				result.OriginCode = config.DefaultOriginCode
				result.Destination = suggestion
				result.DestinationCode = code
				result.Suggestion = fmt.Sprintf("Did you mean %s?", titleCase(suggestion))
				result.Confidence = 80
			} else {
				result.Error = fmt.Sprintf("I don't recognize '%s'. Try cities like London, Paris, Dubai or New York.", locations[0])
			}

		default:
			result.Error = "Where would you like to fly to? Example: 'Flights to London'"
		}

	case domainNLP.IntentHotel:
		if len(locations) >= 1 {
			if ok, code, suggestion := s.Validate(locations[0]); ok {
				result.Destination = locations[0]
				result.DestinationCode = code
			} else if suggestion != "" {
				result.Destination = suggestion
				result.DestinationCode = code
				result.Suggestion = fmt.Sprintf("Did you mean %s?", titleCase(suggestion))
				result.Confidence = 80
			} else {
				result.Error = fmt.Sprintf("I don't recognize '%s' as a city.", locations[0])
			}
		} else {
			result.Error = "Which city do you need a hotel in? Example: 'Hotels in Paris'"
		}
	}
}

func (s *nlpService) extractDates(result *domainNLP.ExtractionResult, text string) {
	now := s.now()
	result.Date = s.extractDateSimple(text)

	if strings.Contains(text, "hotel") || strings.Contains(text, "stay") {
		checkIn := now.AddDate(0, 0, 1)
		result.CheckIn = checkIn.Format("2006-01-02")
		result.CheckOut = now.AddDate(0, 0, 3).Format("2006-01-02")

		for _, pattern := range durationPatterns {
			match := pattern.FindStringSubmatch(text)
			if match == nil {
				continue
			}
			nights, err := strconv.Atoi(match[1])
			if err != nil {
				continue
			}
			result.CheckOut = checkIn.AddDate(0, 0, nights).Format("2006-01-02")
			break
		}
	}
}

// extractDateSimple applies date rules in order: relative terms, weekday
// names, explicit month-day forms, ISO dates. Defaults to tomorrow.
func (s *nlpService) extractDateSimple(text string) string {
	now := s.now()

	switch {
	case strings.Contains(text, "tomorrow"):
		return now.AddDate(0, 0, 1).Format("2006-01-02")
	case strings.Contains(text, "next week"):
		return now.AddDate(0, 0, 7).Format("2006-01-02")
	case strings.Contains(text, "today"):
		return now.Format("2006-01-02")
	}

	for _, wd := range weekdayNames {
		if !strings.Contains(text, wd.name) {
			continue
		}
		daysAhead := (int(wd.day) - int(now.Weekday()) + 7) % 7
		if daysAhead == 0 {
			// Today's weekday means next week, not today.
			daysAhead = 7
		}
		return now.AddDate(0, 0, daysAhead).Format("2006-01-02")
	}

	if match := reDayOfMonth.FindStringSubmatch(text); match != nil {
		if date, ok := s.resolveMonthDay(match[2], match[1]); ok {
			return date
		}
	}
	if match := reMonthDay.FindStringSubmatch(text); match != nil {
		if date, ok := s.resolveMonthDay(match[1], match[2]); ok {
			return date
		}
	}
	if match := reISODate.FindStringSubmatch(text); match != nil {
		year, _ := strconv.Atoi(match[1])
		month, _ := strconv.Atoi(match[2])
		day, _ := strconv.Atoi(match[3])
		return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
	}

	return now.AddDate(0, 0, 1).Format("2006-01-02")
}

// resolveMonthDay turns a month name and day into a date in the current
// year, rolling to next year when the date has already passed.
func (s *nlpService) resolveMonthDay(monthName, dayStr string) (string, bool) {
	month, ok := monthNames[monthName]
	if !ok {
		return "", false
	}
	day, err := strconv.Atoi(dayStr)
	if err != nil || day < 1 || day > 31 {
		return "", false
	}

	now := s.now()
	target := time.Date(now.Year(), month, day, 0, 0, 0, 0, now.Location())
	if target.Before(now) {
		target = time.Date(now.Year()+1, month, day, 0, 0, 0, 0, now.Location())
	}
	return target.Format("2006-01-02"), true
}

func extractPartySize(result *domainNLP.ExtractionResult, text string) {
	for _, pattern := range guestPatterns {
		if match := pattern.FindStringSubmatch(text); match != nil {
			if n, err := strconv.Atoi(match[1]); err == nil && n >= 1 {
				result.Guests = n
			}
			break
		}
	}
	for _, pattern := range roomPatterns {
		if match := pattern.FindStringSubmatch(text); match != nil {
			if n, err := strconv.Atoi(match[1]); err == nil && n >= 1 {
				result.Rooms = n
			}
			break
		}
	}
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
