// Package i18n holds the message catalogues used by templates and toasts.
package i18n

import (
	"context"
	"strings"
)

// DefaultLang is used when neither the request nor the catalogue can decide.
const DefaultLang = "en"

type ctxKey struct{}

var catalogues = map[string]map[string]string{
	"en": {
		"required":                      "Required",
		"app.name":                      "TutorConnect",
		"nav.back":                      "← Back",
		"nav.back_home":                 "← Back to Home",
		"nav.logout":                    "Log out",
		"landing.title":                 "Find the perfect tutor near you",
		"landing.subtitle":              "Connect with qualified educators in your area, or share your expertise with students who need it.",
		"landing.cta":                   "Get Started",
		"auth.title":                    "Welcome back",
		"auth.login":                    "Log in",
		"auth.signup":                   "Create account",
		"auth.invalid_credentials":      "Invalid email or password",
		"auth.email_password_req":       "Email and password are required",
		"auth.email_taken":              "Email already exists",
		"auth.internal":                 "Internal server error",
		"auth.password_too_long":        "Password must be at most 72 bytes",
		"role.title":                    "Choose your role to get started",
		"role.student":                  "I'm a Student",
		"role.student.blurb":            "Looking for a tutor to help with my studies. I want to find qualified educators near me.",
		"role.student.cta":              "Continue as Student",
		"role.tutor":                    "I'm a Tutor",
		"role.tutor.blurb":              "I want to share my knowledge and help students succeed. Connect me with learners in my area.",
		"role.tutor.cta":                "Continue as Tutor",
		"role.loading":                  "Loading...",
		"role.retry":                    "Still waiting? Reload the choices",
		"profile.student.title":         "Create Your Student Profile",
		"profile.tutor.title":           "Create Your Tutor Profile",
		"profile.submit":                "Create Profile",
		"toast.error.title":             "Error",
		"toast.missing_info.title":      "Missing Information",
		"toast.missing_info.desc":       "Please fill in all required fields.",
		"toast.created.title":           "Profile Created!",
		"toast.created.student":         "Your student profile has been created successfully.",
		"toast.created.tutor":           "Your tutor profile has been created successfully.",
		"toast.in_flight":               "A role selection is already in progress.",
		"search.title":                  "Tutors for your subjects",
		"search.empty":                  "No tutors match your subjects yet.",
		"dashboard.title":               "Your tutor dashboard",
		"dashboard.students":            "Students looking for your subjects",
		"dashboard.empty":               "No students match your subjects yet.",
		"landing.feature.local":         "Local matches",
		"landing.feature.local.desc":    "Find tutors and students in your neighbourhood.",
		"landing.feature.verified":      "Real profiles",
		"landing.feature.verified.desc": "Every tutor lists their subjects, experience and rate.",
		"landing.feature.subjects":      "Ten subjects",
		"landing.feature.subjects.desc": "From Mathematics to Music, pick what you need.",
		"auth.email":                    "Email",
		"auth.password":                 "Password",
		"auth.name":                     "Name",
		"field.name":                    "Full Name",
		"field.age":                     "Age",
		"field.grade":                   "Grade Level",
		"field.grade.placeholder":       "Select your grade",
		"field.subjects.student":        "Subjects you need help with",
		"field.subjects.tutor":          "Subjects you teach",
		"field.availability":            "Availability",
		"field.budget":                  "Budget per hour",
		"field.location":                "Location",
		"field.special_requirements":    "Special requirements",
		"field.email":                   "Email",
		"field.phone":                   "Phone",
		"field.education":               "Education",
		"field.experience":              "Teaching experience",
		"field.bio":                     "Bio",
		"field.hourly_rate":             "Hourly rate",
		"field.travel_radius":           "Travel radius",
		"search.filter":                 "Filter",
		"dashboard.edit":                "Edit profile",
	},
	"fr": {
		"required":                      "Requis",
		"app.name":                      "TutorConnect",
		"nav.back":                      "← Retour",
		"nav.back_home":                 "← Retour à l'accueil",
		"nav.logout":                    "Se déconnecter",
		"landing.title":                 "Trouvez le tuteur idéal près de chez vous",
		"landing.subtitle":              "Rencontrez des enseignants qualifiés dans votre quartier, ou partagez votre savoir avec des élèves.",
		"landing.cta":                   "Commencer",
		"auth.title":                    "Bon retour",
		"auth.login":                    "Se connecter",
		"auth.signup":                   "Créer un compte",
		"auth.invalid_credentials":      "Email ou mot de passe invalide",
		"auth.email_password_req":       "Email et mot de passe requis",
		"auth.email_taken":              "Cet email existe déjà",
		"auth.internal":                 "Erreur interne du serveur",
		"auth.password_too_long":        "Le mot de passe ne doit pas dépasser 72 octets",
		"role.title":                    "Choisissez votre rôle pour commencer",
		"role.student":                  "Je suis élève",
		"role.student.blurb":            "Je cherche un tuteur pour m'aider dans mes études, près de chez moi.",
		"role.student.cta":              "Continuer en tant qu'élève",
		"role.tutor":                    "Je suis tuteur",
		"role.tutor.blurb":              "Je veux partager mes connaissances et aider des élèves de mon quartier.",
		"role.tutor.cta":                "Continuer en tant que tuteur",
		"role.loading":                  "Chargement...",
		"role.retry":                    "Toujours en attente ? Recharger les choix",
		"profile.student.title":         "Créez votre profil élève",
		"profile.tutor.title":           "Créez votre profil tuteur",
		"profile.submit":                "Créer le profil",
		"toast.error.title":             "Erreur",
		"toast.missing_info.title":      "Informations manquantes",
		"toast.missing_info.desc":       "Veuillez remplir tous les champs obligatoires.",
		"toast.created.title":           "Profil créé !",
		"toast.created.student":         "Votre profil élève a été créé avec succès.",
		"toast.created.tutor":           "Votre profil tuteur a été créé avec succès.",
		"toast.in_flight":               "Une sélection de rôle est déjà en cours.",
		"search.title":                  "Tuteurs pour vos matières",
		"search.empty":                  "Aucun tuteur ne correspond encore à vos matières.",
		"dashboard.title":               "Votre tableau de bord",
		"dashboard.students":            "Élèves cherchant vos matières",
		"dashboard.empty":               "Aucun élève ne correspond encore à vos matières.",
		"landing.feature.local":         "Près de chez vous",
		"landing.feature.local.desc":    "Trouvez tuteurs et élèves dans votre quartier.",
		"landing.feature.verified":      "Des profils réels",
		"landing.feature.verified.desc": "Chaque tuteur indique ses matières, son expérience et son tarif.",
		"landing.feature.subjects":      "Dix matières",
		"landing.feature.subjects.desc": "Des mathématiques à la musique, choisissez ce qu'il vous faut.",
		"auth.email":                    "Email",
		"auth.password":                 "Mot de passe",
		"auth.name":                     "Nom",
		"field.name":                    "Nom complet",
		"field.age":                     "Âge",
		"field.grade":                   "Niveau",
		"field.grade.placeholder":       "Choisissez votre niveau",
		"field.subjects.student":        "Matières pour lesquelles vous cherchez de l'aide",
		"field.subjects.tutor":          "Matières enseignées",
		"field.availability":            "Disponibilités",
		"field.budget":                  "Budget horaire",
		"field.location":                "Localisation",
		"field.special_requirements":    "Besoins particuliers",
		"field.email":                   "Email",
		"field.phone":                   "Téléphone",
		"field.education":               "Formation",
		"field.experience":              "Expérience d'enseignement",
		"field.bio":                     "Présentation",
		"field.hourly_rate":             "Tarif horaire",
		"field.travel_radius":           "Rayon de déplacement",
		"search.filter":                 "Filtrer",
		"dashboard.edit":                "Modifier le profil",
	},
}

// Supported reports whether a catalogue exists for lang.
func Supported(lang string) bool {
	_, ok := catalogues[lang]
	return ok
}

// T translates code for lang. Unknown languages fall back to the default
// catalogue; unknown codes are returned as-is.
func T(lang, code string) string {
	if m, ok := catalogues[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := catalogues[DefaultLang][code]; ok {
		return s
	}
	return code
}

// DetectLanguage picks a supported language from an Accept-Language header.
func DetectLanguage(acceptLanguage string) string {
	for _, part := range strings.Split(acceptLanguage, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if tag == "" {
			continue
		}
		primary := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if Supported(primary) {
			return primary
		}
	}
	return DefaultLang
}

// WithLang stores the request language in ctx.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, ctxKey{}, lang)
}

// LangFromContext returns the language stored by WithLang, or DefaultLang.
func LangFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok && v != "" {
		return v
	}
	return DefaultLang
}
