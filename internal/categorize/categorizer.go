// Package categorize assigns a spending category to a document from its
// vendor name and line item texts. Matching is keyword and brand
// containment over the combined lowercased text; brands score higher
// because a brand hit identifies the merchant, a keyword only hints.
package categorize

import (
	"strings"

	"github.com/karim-nassar/invoice-extractor/constants"
)

const (
	keywordWeight = 1
	brandWeight   = 3
)

type categoryRule struct {
	category constants.Category
	keywords []string
	brands   []string
}

// Rules are ordered: on a score tie the earlier category wins, so the
// outcome is stable across runs.
var rules = []categoryRule{
	{
		category: constants.FoodGroceries,
		keywords: []string{
			"carrefour", "spinneys", "metro", "kheir zaman", "oscar",
			"سبينس", "كارفور", "ميترو", "خير زمان",
			"grocery", "supermarket", "market", "bread", "milk", "eggs",
			"vegetables", "fruits", "meat", "chicken", "fish",
			"خضار", "فواكه", "لحم", "دجاج", "سمك", "خبز", "لبن",
		},
		brands: []string{"carrefour", "spinneys", "metro", "kheir zaman"},
	},
	{
		category: constants.DiningOut,
		keywords: []string{
			"restaurant", "cafe", "coffee", "pizza", "burger", "kfc",
			"mcdonalds", "hardees", "pizza hut", "dominos", "cook door",
			"مطعم", "كافيه", "قهوة", "بيتزا", "برجر",
			"pepsi", "cola", "sandwich", "meal", "fries", "chicken",
		},
		brands: []string{"kfc", "mcdonalds", "pizza hut", "tabali", "chicken fila", "cook door"},
	},
	{
		category: constants.Transportation,
		keywords: []string{
			"uber", "careem", "taxi", "gas", "fuel", "petrol", "diesel",
			"parking", "toll", "metro", "bus",
			"تاكسي", "بنزين", "وقود", "مواصلات", "اوبر", "كريم",
			"gas station", "petrol station", "محطة بنزين",
		},
		brands: []string{"uber", "careem", "misr petroleum", "total", "wataniya"},
	},
	{
		category: constants.HousingRent,
		keywords: []string{
			"rent", "landlord", "apartment", "flat", "house",
			"إيجار", "شقة", "منزل", "سكن",
			"real estate", "property",
		},
	},
	{
		category: constants.Utilities,
		keywords: []string{
			"electricity", "water", "gas", "internet", "phone", "mobile",
			"we", "vodafone", "orange", "etisalat",
			"كهرباء", "مياه", "غاز", "انترنت", "تليفون", "موبايل",
			"bill", "utility",
		},
		brands: []string{"we", "vodafone", "orange", "etisalat", "te data", "fawry", "فوري", "فورى"},
	},
	{
		category: constants.HealthMedical,
		keywords: []string{
			"pharmacy", "doctor", "clinic", "hospital", "medical",
			"medicine", "drug", "prescription", "lab", "laboratory",
			"صيدلية", "طبيب", "عيادة", "مستشفى", "دواء", "علاج",
			"seif", "19011", "al ezaby",
		},
		brands: []string{"seif", "19011", "al ezaby", "el ezaby"},
	},
	{
		category: constants.Entertainment,
		keywords: []string{
			"cinema", "movie", "theatre", "theater", "game", "gaming",
			"playstation", "xbox", "netflix", "spotify", "subscription",
			"سينما", "فيلم", "العاب", "لعبة",
			"vox", "galaxy",
		},
		brands: []string{"vox", "galaxy", "netflix", "spotify", "steam"},
	},
	{
		category: constants.Shopping,
		keywords: []string{
			"clothing", "clothes", "shoes", "fashion", "accessories",
			"electronics", "mobile", "laptop", "computer", "phone",
			"ملابس", "احذية", "موضة", "الكترونيات", "موبايل",
			"zara", "h&m", "noon", "amazon", "jumia", "souq",
		},
		brands: []string{"zara", "h&m", "noon", "amazon", "jumia", "souq"},
	},
	{
		category: constants.Education,
		keywords: []string{
			"school", "university", "college", "course", "tuition",
			"books", "library", "study", "education", "learning",
			"مدرسة", "جامعة", "كلية", "دراسة", "تعليم", "كتب",
			"coursera", "udemy", "udacity",
		},
		brands: []string{"coursera", "udemy", "udacity"},
	},
	{
		category: constants.PersonalCare,
		keywords: []string{
			"salon", "barber", "haircut", "spa", "beauty", "cosmetics",
			"makeup", "perfume", "fragrance", "shampoo",
			"صالون", "حلاق", "تجميل", "عطر", "شامبو",
			"loreal", "nivea", "dove",
		},
		brands: []string{"loreal", "nivea", "dove"},
	},
}

// Categorizer scores the fixed category taxonomy against document text.
type Categorizer struct{}

func NewCategorizer() *Categorizer { return &Categorizer{} }

// Categorize picks the best-scoring category for the vendor name and line
// item texts, or Other when nothing matches.
func (c *Categorizer) Categorize(vendorName string, lineItems []string) constants.Category {
	text := strings.ToLower(vendorName + " " + strings.Join(lineItems, " "))

	best := constants.Other
	bestScore := 0

	for _, rule := range rules {
		score := 0
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				score += keywordWeight
			}
		}
		for _, brand := range rule.brands {
			if strings.Contains(text, brand) {
				score += brandWeight
			}
		}
		if score > bestScore {
			best = rule.category
			bestScore = score
		}
	}
	return best
}
