package catalog

import "github.com/okian/loadout/internal/domain/model"

// defaultDecks returns the built-in catalog. Declaration order matters:
// it is the tie-break when two decks score identically.
func defaultDecks() []model.DeckDefinition {
	return []model.DeckDefinition{
		{
			Slug:      "mega-knight-miner-control",
			Name:      "Mega Knight Miner Control",
			Archetype: model.ArchetypeControl,
			TrophyRange: model.TrophyRange{
				Min: 4500,
				Max: 8000,
			},
			Playstyles: []model.Playstyle{model.PlaystyleControl, model.PlaystyleBridge},
			Cards: []model.DeckCard{
				{Name: "Mega Knight", Key: "mega-knight", LevelRequirement: 11, Elixir: 7},
				{Name: "Miner", Key: "miner", LevelRequirement: 9, Elixir: 3},
				{Name: "Bats", Key: "bats", LevelRequirement: 11, Elixir: 2},
				{Name: "Spear Goblins", Key: "spear-goblins", LevelRequirement: 11, Elixir: 2},
				{Name: "Zap", Key: "zap", LevelRequirement: 11, Elixir: 2},
				{Name: "Inferno Dragon", Key: "inferno-dragon", LevelRequirement: 9, Elixir: 4},
				{Name: "Wall Breakers", Key: "wall-breakers", LevelRequirement: 9, Elixir: 2},
				{Name: "Fisherman", Key: "fisherman", LevelRequirement: 9, Elixir: 3},
			},
			AverageElixir: 3.1,
		},
		{
			Slug:      "hog-cycle",
			Name:      "2.6 Hog Cycle",
			Archetype: model.ArchetypeCycle,
			TrophyRange: model.TrophyRange{
				Min: 4000,
				Max: 7000,
			},
			Playstyles: []model.Playstyle{model.PlaystyleCycle, model.PlaystyleAggro},
			Cards: []model.DeckCard{
				{Name: "Hog Rider", Key: "hog-rider", LevelRequirement: 11, Elixir: 4},
				{Name: "Ice Spirit", Key: "ice-spirit", LevelRequirement: 11, Elixir: 1},
				{Name: "Skeletons", Key: "skeletons", LevelRequirement: 11, Elixir: 1},
				{Name: "Ice Golem", Key: "ice-golem", LevelRequirement: 11, Elixir: 2},
				{Name: "Musketeer", Key: "musketeer", LevelRequirement: 11, Elixir: 4},
				{Name: "Cannon", Key: "cannon", LevelRequirement: 11, Elixir: 3},
				{Name: "Fireball", Key: "fireball", LevelRequirement: 11, Elixir: 4},
				{Name: "The Log", Key: "the-log", LevelRequirement: 9, Elixir: 2},
			},
			AverageElixir: 2.6,
		},
		{
			Slug:      "golem-beatdown",
			Name:      "Golem Lightning Beatdown",
			Archetype: model.ArchetypeBeatdown,
			TrophyRange: model.TrophyRange{
				Min: 5000,
				Max: 8000,
			},
			Playstyles: []model.Playstyle{model.PlaystyleAggro, model.PlaystyleSpell},
			Cards: []model.DeckCard{
				{Name: "Golem", Key: "golem", LevelRequirement: 9, Elixir: 8},
				{Name: "Night Witch", Key: "night-witch", LevelRequirement: 9, Elixir: 4},
				{Name: "Baby Dragon", Key: "baby-dragon", LevelRequirement: 9, Elixir: 4},
				{Name: "Mega Minion", Key: "mega-minion", LevelRequirement: 11, Elixir: 3},
				{Name: "Lightning", Key: "lightning", LevelRequirement: 9, Elixir: 6},
				{Name: "Tornado", Key: "tornado", LevelRequirement: 9, Elixir: 3},
				{Name: "Lumberjack", Key: "lumberjack", LevelRequirement: 9, Elixir: 4},
				{Name: "Barbarian Barrel", Key: "barbarian-barrel", LevelRequirement: 9, Elixir: 2},
			},
			AverageElixir: 4.2,
		},
		{
			Slug:      "xbow-siege",
			Name:      "X-Bow 2.9 Siege",
			Archetype: model.ArchetypeSiege,
			TrophyRange: model.TrophyRange{
				Min: 4500,
				Max: 7500,
			},
			Playstyles: []model.Playstyle{model.PlaystyleCycle, model.PlaystyleControl},
			Cards: []model.DeckCard{
				{Name: "X-Bow", Key: "x-bow", LevelRequirement: 9, Elixir: 6},
				{Name: "Tesla", Key: "tesla", LevelRequirement: 11, Elixir: 4},
				{Name: "Archers", Key: "archers", LevelRequirement: 11, Elixir: 3},
				{Name: "Skeletons", Key: "skeletons", LevelRequirement: 11, Elixir: 1},
				{Name: "Ice Spirit", Key: "ice-spirit", LevelRequirement: 11, Elixir: 1},
				{Name: "Fireball", Key: "fireball", LevelRequirement: 11, Elixir: 4},
				{Name: "The Log", Key: "the-log", LevelRequirement: 9, Elixir: 2},
				{Name: "Ice Golem", Key: "ice-golem", LevelRequirement: 11, Elixir: 2},
			},
			AverageElixir: 2.9,
		},
	}
}
