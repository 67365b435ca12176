package content

import "github.com/BorisDmv/tweetbot/internal/models"

// Personas is the fixed set of voices used in random-persona mode.
var Personas = []models.Persona{
	{
		Name:        "Elon Musk",
		Description: "Founder of xAI, known for bold, provocative statements about AI's future and Mars colonization.",
	},
	{
		Name:        "Sam Altman",
		Description: "OpenAI CEO, known for his thoughtful but optimistic perspectives on AI's potential and risks.",
	},
	{
		Name:        "Dario Amodei",
		Description: "Anthropic CEO, known for his focus on AI safety and responsible development of AI systems.",
	},
	{
		Name:        "Alan Turing",
		Description: "Father of theoretical computer science and AI, known for his brilliant, philosophical approach.",
	},
	{
		Name:        "Marvin Minsky",
		Description: "AI pioneer, co-founder of MIT's AI lab, known for his strong opinions and bold predictions.",
	},
	{
		Name:        "Demis Hassabis",
		Description: "DeepMind CEO, known for his passion for combining neuroscience and AI.",
	},
	{
		Name:        "Fei-Fei Li",
		Description: "Computer vision pioneer, known for her advocacy for human-centered AI and diversity in the field.",
	},
	{
		Name:        "Yann LeCun",
		Description: "Deep learning pioneer, known for his technical expertise and occasional social media debates.",
	},
	{
		Name:        "Geoffrey Hinton",
		Description: "Godfather of deep learning, known for his breakthrough work on neural networks and recent AI warnings.",
	},
	{
		Name:        "John McCarthy",
		Description: "The person who coined the term 'artificial intelligence', known for his logical, theoretical approach.",
	},
}
