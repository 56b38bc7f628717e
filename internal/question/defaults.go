package question

import "github.com/lupa-app/lupa/pkg/model"

// Defaults returns the shared question set seeded for audience, ordered by
// order_index starting at 1.
func Defaults(audience model.Audience) []model.Question {
	var texts [][2]string
	switch audience {
	case model.AudiencePerson:
		texts = personQuestions
	case model.AudienceCompany:
		texts = companyQuestions
	default:
		return nil
	}
	out := make([]model.Question, len(texts))
	for i, t := range texts {
		out[i] = model.Question{
			Text:        t[0],
			Placeholder: t[1],
			Audience:    audience,
			Format:      model.AnswerFormatText,
			OrderIndex:  i + 1,
		}
	}
	return out
}

// text, placeholder
var personQuestions = [][2]string{
	{"Descreva o ambiente de trabalho em que você se sente mais produtivo.", "Ex.: silencioso, colaborativo, remoto..."},
	{"Como você prefere receber feedback sobre o seu trabalho?", "Conte como e com que frequência"},
	{"Conte sobre uma situação em que você discordou de uma decisão da equipe. O que você fez?", ""},
	{"O que mais te motiva a dar o seu melhor no dia a dia?", ""},
	{"Como você organiza suas prioridades quando tudo parece urgente?", ""},
	{"Que valores uma empresa precisa ter para que você queira ficar nela por muitos anos?", ""},
}

var companyQuestions = [][2]string{
	{"Como vocês descreveriam a cultura da empresa em poucas palavras?", ""},
	{"Como o feedback circula entre líderes e equipes?", ""},
	{"Como são tomadas as decisões importantes no dia a dia?", ""},
	{"O que a empresa faz para reconhecer um bom trabalho?", ""},
	{"Qual é o modelo de trabalho (presencial, híbrido, remoto) e por quê?", ""},
	{"Que comportamentos não combinam com a empresa?", ""},
}
