package mockapi

import (
	"encoding/json"
	"slices"
	"strconv"
	"sync"

	"github.com/dmitrijs2005/marketsupervisor/internal/client/models"
)

// Seed credentials of the development backend.
const (
	SeedAdminEmail      = "admin@marketsupervisor.tg"
	SeedAdminPassword   = "admin123"
	SeedCompanyPassword = "password123"
)

type account struct {
	user     models.User
	password passwordHash
}

// DB is the in-memory dataset behind the mock API. All methods are safe for
// concurrent use.
type DB struct {
	mu            sync.Mutex
	next          int
	admins        []account
	passwords     map[models.ID]passwordHash
	companies     []models.Company
	crons         []models.Cron
	results       []models.SearchResult
	notifications []models.Notification
	resetTokens   map[string]models.ID
	revoked       map[string]struct{}
}

func strptr(s string) *string { return &s }

// NewDB returns a dataset holding the sample companies, crons and results.
func NewDB() *DB {
	seeds := seedHashes()
	db := &DB{
		next:        100,
		passwords:   map[models.ID]passwordHash{"1": seeds["1"], "2": seeds["2"]},
		resetTokens: map[string]models.ID{},
		revoked:     map[string]struct{}{},
		admins: []account{{
			user:     models.User{ID: "1", Email: SeedAdminEmail, Name: "Administrator", Role: RoleAdmin},
			password: seeds["admin"],
		}},
		companies: []models.Company{
			{ID: "1", Name: "Tech Solutions SARL", Email: "contact@techsolutions.tg", Country: "Togo",
				Sector: "Technologie", IsActive: true, CreatedAt: "2024-01-15"},
			{ID: "2", Name: "Construction Plus", Email: "info@constructionplus.tg", Country: "Togo",
				Sector: "Construction", IsActive: true, CreatedAt: "2024-02-20"},
		},
		crons: []models.Cron{
			{ID: "1", CompanyID: "1", Name: "Appels d'offres Construction Togo",
				Tags: []string{"construction", "Togo", "appels d'offres"}, IsActive: true,
				CreatedAt: "2024-03-01", SearchCount: 45, LastSearch: strptr("2024-03-15")},
			{ID: "2", CompanyID: "1", Name: "Opportunités Énergie",
				Tags: []string{"énergie", "renouvelable", "Togo"}, IsActive: true,
				CreatedAt: "2024-03-10", SearchCount: 23, LastSearch: strptr("2024-03-14")},
			{ID: "3", CompanyID: "2", Name: "Projets BTP Togo",
				Tags: []string{"BTP", "construction", "Togo"}, IsActive: true,
				CreatedAt: "2024-03-05", SearchCount: 67, LastSearch: strptr("2024-03-15")},
		},
		results: []models.SearchResult{
			{ID: "1", CronID: "1", Title: "Appel d'offres pour la construction d'un pont à Lomé",
				Summary: "Le gouvernement togolais lance un appel d'offres pour la construction d'un pont moderne reliant les quartiers de Lomé...",
				Source:  "https://www.togo.gouv.tg/appels-offres/construction-pont-lome", Date: "2024-03-15",
				Tags: []string{"construction", "infrastructure", "pont"}},
			{ID: "2", CronID: "1", Title: "Projet de construction d'écoles dans la région des Plateaux",
				Summary: "Le ministère de l'éducation lance un appel d'offres pour la construction de 10 écoles primaires...",
				Source:  "https://www.education.tg/projets/construction-ecoles-plateaux", Date: "2024-03-14",
				Tags: []string{"construction", "éducation", "écoles"}},
			{ID: "3", CronID: "2", Title: "Projet d'installation de panneaux solaires dans les zones rurales",
				Summary: "Opportunité d'installation de systèmes d'énergie solaire pour électrifier les villages...",
				Source:  "https://www.energie.tg/projets/solaire-rural", Date: "2024-03-14",
				Tags: []string{"énergie", "solaire", "rural"}},
			{ID: "4", CronID: "3", Title: "Construction d'un centre commercial à Kara",
				Summary: "Appel d'offres pour la construction d'un centre commercial moderne de 5000m²...",
				Source:  "https://www.construction.tg/projets/centre-commercial-kara", Date: "2024-03-15",
				Tags: []string{"construction", "commerce", "Kara"}},
		},
		notifications: []models.Notification{
			{ID: "1", Title: "Nouveaux résultats", Message: "2 nouveaux résultats pour Appels d'offres Construction Togo",
				CreatedAt: "2024-03-15"},
			{ID: "2", Title: "Cron exécuté", Message: "Projets BTP Togo a été exécuté avec succès",
				Read: true, CreatedAt: "2024-03-15"},
		},
	}
	return db
}

func (db *DB) nextID() models.ID {
	db.next++
	return models.ID(strconv.Itoa(db.next))
}

func (db *DB) revoke(token string) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.revoked[token] = struct{}{}
}

func (db *DB) isRevoked(token string) bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	_, ok := db.revoked[token]
	return ok
}

// EachResetToken calls fn for every outstanding password reset token.
func (db *DB) EachResetToken(fn func(token string, company models.ID)) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for tok, id := range db.resetTokens {
		fn(tok, id)
	}
}

// authenticateCompany returns the company principal matching the credentials.
func (db *DB) authenticateCompany(email, password string) (models.User, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, c := range db.companies {
		if c.Email == email && db.passwords[c.ID].matches(password) {
			return companyUser(c), true
		}
	}
	return models.User{}, false
}

func (db *DB) authenticateAdmin(email, password string) (models.User, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, a := range db.admins {
		if a.user.Email == email && a.password.matches(password) {
			return a.user, true
		}
	}
	return models.User{}, false
}

// principalUser resolves the user behind token claims.
func (db *DB) principalUser(claims *Claims) (models.User, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	id := models.ID(claims.Subject)
	if claims.Role == RoleAdmin {
		for _, a := range db.admins {
			if a.user.ID == id {
				return a.user, true
			}
		}
		return models.User{}, false
	}
	i := db.companyIndex(id)
	if i < 0 {
		return models.User{}, false
	}
	return companyUser(db.companies[i]), true
}

// companyUser is the principal of a company login. Besides the typed user
// fields it carries the rest of the company record.
func companyUser(c models.Company) models.User {
	extra := map[string]json.RawMessage{}
	for key, v := range map[string]any{
		"telephone": c.Telephone,
		"website":   c.Website,
		"isActive":  c.IsActive,
		"createdAt": c.CreatedAt,
	} {
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			continue
		}
		extra[key] = raw
	}
	return models.User{
		ID: c.ID, Email: c.Email, Name: c.Name, Company: c.Name,
		Sector: c.Sector, Country: c.Country, Role: RoleCompany,
		Extra: extra,
	}
}

func (db *DB) emailTaken(email string) bool {
	for _, c := range db.companies {
		if c.Email == email {
			return true
		}
	}
	return false
}

func (db *DB) companyIndex(id models.ID) int {
	return slices.IndexFunc(db.companies, func(c models.Company) bool { return c.ID == id })
}

func (db *DB) cronIndex(id models.ID) int {
	return slices.IndexFunc(db.crons, func(c models.Cron) bool { return c.ID == id })
}

func (db *DB) resultIndex(id models.ID) int {
	return slices.IndexFunc(db.results, func(r models.SearchResult) bool { return r.ID == id })
}

// cronOwner returns the company owning cronID.
func (db *DB) cronOwner(cronID models.ID) models.ID {
	if i := db.cronIndex(cronID); i >= 0 {
		return db.crons[i].CompanyID
	}
	return ""
}

// visibleResults returns copies of the results whose cron belongs to scope
// (every result when scope is empty).
func (db *DB) visibleResults(scope models.ID) []models.SearchResult {
	out := make([]models.SearchResult, 0, len(db.results))
	for _, r := range db.results {
		if scope != "" && db.cronOwner(r.CronID) != scope {
			continue
		}
		out = append(out, cloneResult(r))
	}
	return out
}

func (db *DB) visibleCrons(scope models.ID) []models.Cron {
	out := make([]models.Cron, 0, len(db.crons))
	for _, c := range db.crons {
		if scope != "" && c.CompanyID != scope {
			continue
		}
		out = append(out, cloneCron(c))
	}
	return out
}

func cloneCron(c models.Cron) models.Cron {
	c.Tags = slices.Clone(c.Tags)
	if c.LastSearch != nil {
		c.LastSearch = strptr(*c.LastSearch)
	}
	if c.LastRunAt != nil {
		c.LastRunAt = strptr(*c.LastRunAt)
	}
	return c
}

func cloneResult(r models.SearchResult) models.SearchResult {
	r.Tags = slices.Clone(r.Tags)
	return r
}
