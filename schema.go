package pledge

import "fmt"

// Schema holds the rules for every field of the form and the collection
// constraints for the donations list.
type Schema struct {
	FirstName          []Rule
	SecondName         []Rule
	Over18             []Rule
	DonationsAmount    []Rule
	TermsAndConditions []Rule
	Institution        []Rule
	Percentage         []Rule

	// NotNumber is reported for numeric inputs holding non-numeric text.
	NotNumber string

	// MinDonations is the smallest allowed number of donation rows.
	MinDonations        int
	MinDonationsMessage string

	// Total is the exact sum the donation percentages must reach.
	Total      float64
	SumMessage func(sum float64) string
}

// DefaultSchema returns the rules of the donation form, with messages in
// Brazilian Portuguese.
func DefaultSchema() *Schema {
	return &Schema{
		FirstName: []Rule{
			Required("Seu nome é necessário."),
			MinLen(2, "Seu nome precisa ter, no mínimo, 2 caracteres."),
			MaxLen(10, "Seu nome precisa ter, no máximo, 10 caracteres."),
		},
		SecondName: []Rule{
			Required("Seu sobrenome é necessário."),
			MinLen(2, "Seu sobrenome precisa ter, no mínimo, 2 caracteres."),
			MaxLen(100, "Seu sobrenome precisa ter, no máximo, 100 caracteres."),
		},
		Over18: []Rule{
			IsTrue("É preciso ser maior de 18 anos."),
		},
		DonationsAmount: []Rule{
			Required("O valor da doação é necessário."),
			Min(10, "A doação precisa ser de, no mínimo, R$ 10."),
		},
		TermsAndConditions: []Rule{
			IsTrue("É preciso aceitar os termos e condições."),
		},
		Institution: []Rule{
			Required("O nome da instituição é necessário."),
			MinLen(3, "O nome da instituição precisa ter, no mínimo, 3 caracteres."),
			MaxLen(10, "O nome da instituição precisa ter, no máximo, 10 caracteres."),
		},
		Percentage: []Rule{
			Required("A porcentagem da doação é necessária."),
			Min(0.01, "A porcentagem precisa ser, no mínimo, 0.01%."),
			Max(100, "A porcentagem precisa ser, no máximo, 100%."),
		},
		NotNumber:           "O valor precisa ser um número.",
		MinDonations:        1,
		MinDonationsMessage: "É preciso adicionar, no mínimo, 1 instituição.",
		Total:               100,
		SumMessage: func(sum float64) string {
			return fmt.Sprintf("A soma das porcentagens precisa ser igual a 100%%, mas o valor da soma é %s%%", formatFloat(sum))
		},
	}
}
