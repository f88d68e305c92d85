package ai

import (
	"strings"
)

const enIngredientSection = `Analyze this image and identify all visible food ingredients.

Return your response in this exact format:
INGREDIENTS:
- ingredient 1
- ingredient 2
- ingredient 3
(etc.)

CATEGORIES:
- Proteins: list any proteins
- Vegetables: list any vegetables
- Fruits: list any fruits
- Dairy: list any dairy products
- Grains/Carbs: list any grains or carbs
- Condiments/Sauces: list any condiments or sauces
- Other: list anything else

Be specific about what you see. If you can identify specific varieties (e.g., cherry tomatoes vs regular tomatoes), please do so.`

const frIngredientSection = `Analysez cette image et identifiez tous les ingrédients alimentaires visibles.

Répondez exactement dans ce format :
INGRÉDIENTS:
- ingrédient 1
- ingrédient 2
- ingrédient 3
(etc.)

CATÉGORIES:
- Protéines : listez les protéines
- Légumes : listez les légumes
- Fruits : listez les fruits
- Produits laitiers : listez les produits laitiers
- Céréales/Féculents : listez les céréales et féculents
- Condiments/Sauces : listez les condiments et sauces
- Autres : listez tout le reste

Soyez précis sur ce que vous voyez. Si vous pouvez identifier des variétés spécifiques (par exemple, tomates cerises plutôt que tomates), faites-le.`

const plIngredientSection = `Przeanalizuj to zdjęcie i wskaż wszystkie widoczne składniki spożywcze.

Odpowiedz dokładnie w tym formacie:
SKŁADNIKI:
- składnik 1
- składnik 2
- składnik 3
(itd.)

KATEGORIE:
- Białka: wymień białka
- Warzywa: wymień warzywa
- Owoce: wymień owoce
- Nabiał: wymień produkty mleczne
- Zboża/Węglowodany: wymień zboża i węglowodany
- Przyprawy/Sosy: wymień przyprawy i sosy
- Inne: wymień pozostałe

Opisuj dokładnie to, co widzisz. Jeśli rozpoznajesz konkretne odmiany (np. pomidorki koktajlowe zamiast pomidorów), podaj je.`

const recipeJSONContract = `{
  "recipes": [
    {
      "name": "recipe name with a leading emoji",
      "difficulty": "Easy",
      "time": "25 minutes",
      "ingredients_used": ["ingredient from the list"],
      "missing_ingredients": ["ingredient not in the list"],
      "steps": ["step 1", "step 2"],
      "tip": "pro tip for the dish"
    }
  ]
}`

// RecipeRequest carries everything the recipe prompt is built from.
type RecipeRequest struct {
	Ingredients []string
	DietaryTags []string
	Cuisine     string
	Locale      Locale
}

type recipeSections struct {
	intro        string
	dietaryLabel string
	cuisineLabel string
	task         string
	formatHeader string
	closing      string
}

func sectionsFor(locale Locale) recipeSections {
	switch locale {
	case LocaleFrench:
		return recipeSections{
			intro:        `À partir de ces ingrédients disponibles :`,
			dietaryLabel: `Exigences alimentaires :`,
			cuisineLabel: `Cuisine préférée :`,
			task: `Proposez 3 recettes réalisables principalement avec ces ingrédients. Pour chaque recette, indiquez :

- Un nom de recette commençant par un emoji approprié
- Difficulté : Easy/Medium/Hard
- Temps : durée estimée de préparation
- Les ingrédients utilisés parmi la liste ci-dessus
- Les ingrédients nécessaires qui ne figurent PAS dans la liste
- Des instructions de cuisine brèves (5 à 7 étapes)
- Une astuce de chef pour le plat`,
			formatHeader: `Formatez votre réponse comme un unique objet JSON avec exactement cette structure :`,
			closing: `Privilégiez des recettes pratiques et savoureuses qui tirent le meilleur parti des ingrédients disponibles. Minimisez les ingrédients supplémentaires nécessaires.

Le tableau "recipes" doit contenir exactement 3 entrées. Conservez les clés JSON et les valeurs de "difficulty" ("Easy", "Medium" ou "Hard") en anglais, mais rédigez tout le texte en français. Répondez uniquement avec l'objet JSON : aucune introduction, aucun bloc de code, aucun texte après.`,
		}
	case LocalePolish:
		return recipeSections{
			intro:        `Na podstawie tych dostępnych składników:`,
			dietaryLabel: `Wymagania dietetyczne:`,
			cuisineLabel: `Preferowana kuchnia:`,
			task: `Zaproponuj 3 przepisy, które można przygotować głównie z tych składników. Dla każdego przepisu podaj:

- Nazwę przepisu zaczynającą się od pasującego emoji
- Poziom trudności: Easy/Medium/Hard
- Czas: szacowany czas przygotowania
- Składniki użyte z powyższej listy
- Składniki potrzebne, których NIE ma na liście
- Krótkie instrukcje gotowania (5-7 kroków)
- Poradę szefa kuchni do dania`,
			formatHeader: `Sformatuj odpowiedź jako pojedynczy obiekt JSON o dokładnie tej strukturze:`,
			closing: `Skup się na praktycznych, smacznych przepisach, które dobrze wykorzystują dostępne składniki. Ogranicz do minimum dodatkowe składniki.

Tablica "recipes" musi zawierać dokładnie 3 pozycje. Zachowaj klucze JSON oraz wartości "difficulty" ("Easy", "Medium" lub "Hard") po angielsku, a cały pozostały tekst napisz po polsku. Odpowiedz wyłącznie obiektem JSON: bez wstępu, bez bloków kodu, bez tekstu po nim.`,
		}
	default:
		return recipeSections{
			intro:        `Based on these available ingredients:`,
			dietaryLabel: `Dietary requirements:`,
			cuisineLabel: `Preferred cuisine:`,
			task: `Suggest 3 recipes that can be made primarily with these ingredients. For each recipe provide:

- A recipe name starting with a fitting emoji
- Difficulty: Easy/Medium/Hard
- Time: estimated cooking time
- The ingredients used from the list above
- Any needed ingredients that are NOT in the list
- Brief cooking instructions (5-7 steps)
- A pro tip for the dish`,
			formatHeader: `Format your response as a single JSON object with exactly this structure:`,
			closing: `Focus on practical, delicious recipes that make good use of the available ingredients. Minimize additional ingredients needed.

The "recipes" array must contain exactly 3 entries and "difficulty" must be one of "Easy", "Medium" or "Hard". Respond with only the JSON object: no introduction, no markdown fences, no text after it.`,
		}
	}
}

// BuildIngredientPrompt builds the vision prompt that asks the model for a
// dash-delimited ingredient list plus a category breakdown.
func BuildIngredientPrompt(locale Locale) string {
	switch locale {
	case LocaleFrench:
		return frIngredientSection
	case LocalePolish:
		return plIngredientSection
	default:
		return enIngredientSection
	}
}

// BuildRecipePrompt builds the recipe suggestion prompt. Preference lines
// are appended only when set: dietary tags are comma-joined, and a cuisine
// equal to any locale's "no preference" sentinel is omitted.
func BuildRecipePrompt(req RecipeRequest) string {
	s := sectionsFor(req.Locale)

	var sb strings.Builder
	sb.WriteString(s.intro)
	sb.WriteString("\n\n")
	sb.WriteString(strings.Join(req.Ingredients, "\n"))
	sb.WriteString("\n")

	if len(req.DietaryTags) > 0 {
		sb.WriteString("\n")
		sb.WriteString(s.dietaryLabel)
		sb.WriteString(" ")
		sb.WriteString(strings.Join(req.DietaryTags, ", "))
	}
	if !isAnyCuisine(req.Cuisine) {
		sb.WriteString("\n")
		sb.WriteString(s.cuisineLabel)
		sb.WriteString(" ")
		sb.WriteString(strings.TrimSpace(req.Cuisine))
	}

	sb.WriteString("\n\n")
	sb.WriteString(s.task)
	sb.WriteString("\n\n")
	sb.WriteString(s.formatHeader)
	sb.WriteString("\n\n")
	sb.WriteString(recipeJSONContract)
	sb.WriteString("\n\n")
	sb.WriteString(s.closing)

	return sb.String()
}

func isAnyCuisine(cuisine string) bool {
	c := strings.TrimSpace(cuisine)
	if c == "" {
		return true
	}
	for _, l := range []Locale{LocaleEnglish, LocaleFrench, LocalePolish} {
		if strings.EqualFold(c, l.CuisineAny()) {
			return true
		}
	}
	return false
}
