package oracle

import (
	"sort"
)

const DefaultElo = 1500.0

// DefaultForm é usada quando não há jogos recentes registrados
var DefaultForm = Form{AvgScored: 1.5, AvgConceded: 1.5, WinRate: 0.33}

// PlayerStats agrega as notas dos principais jogadores de uma seleção
type PlayerStats struct {
	AvgOverall  float64 `json:"avg_overall"`
	MaxOverall  float64 `json:"max_overall"`
	AvgAttack   float64 `json:"avg_attack"`
	AvgDefense  float64 `json:"avg_defense"`
	AvgPace     float64 `json:"avg_pace"`
	AvgShooting float64 `json:"avg_shooting"`
	AvgPassing  float64 `json:"avg_passing"`
}

// Form resume os últimos jogos
type Form struct {
	AvgScored   float64 `json:"avg_scored"`
	AvgConceded float64 `json:"avg_conceded"`
	WinRate     float64 `json:"win_rate"`
}

// TeamProfile reúne tudo que o modelo sabe sobre uma seleção.
// Players nil significa sem dados de elenco: Predict falha, Strength continua valendo.
type TeamProfile struct {
	Name    string
	ISOCode string
	Elo     float64 // 0 = desconhecido
	Players *PlayerStats
	Form    *Form
}

// Rating devolve o Elo ou DefaultElo quando desconhecido
func (p TeamProfile) Rating() float64 {
	if p.Elo == 0 {
		return DefaultElo
	}
	return p.Elo
}

// RecentForm devolve a forma recente ou DefaultForm
func (p TeamProfile) RecentForm() Form {
	if p.Form == nil {
		return DefaultForm
	}
	return *p.Form
}

// Catalog é o conjunto imutável de perfis, compartilhado só para leitura entre trials
type Catalog struct {
	byName map[string]TeamProfile
}

func NewCatalog(profiles []TeamProfile) *Catalog {
	c := &Catalog{byName: make(map[string]TeamProfile, len(profiles))}
	for _, p := range profiles {
		if p.ISOCode == "" {
			p.ISOCode = ISOCode(p.Name)
		}
		c.byName[p.Name] = p
	}
	return c
}

func (c *Catalog) Get(name string) (TeamProfile, bool) {
	p, ok := c.byName[name]
	return p, ok
}

func (c *Catalog) Len() int { return len(c.byName) }

// Available lista as seleções com dados de elenco, ordenadas por Elo (maior primeiro)
func (c *Catalog) Available() []TeamProfile {
	out := make([]TeamProfile, 0, len(c.byName))
	for _, p := range c.byName {
		if p.Players != nil {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rating() != out[j].Rating() {
			return out[i].Rating() > out[j].Rating()
		}
		return out[i].Name < out[j].Name
	})
	return out
}
