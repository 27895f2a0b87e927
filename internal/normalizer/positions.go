package normalizer

// ESPN fantasy basketball constant tables. Unknown IDs map to "UNK".

// positionNames maps ESPN defaultPositionId to position abbreviations
var positionNames = map[int]string{
	1: "PG",
	2: "SG",
	3: "SF",
	4: "PF",
	5: "C",
}

// lineupSlotNames maps ESPN lineupSlotId to slot abbreviations
var lineupSlotNames = map[int]string{
	0:  "PG",
	1:  "SG",
	2:  "SF",
	3:  "PF",
	4:  "C",
	5:  "G",
	6:  "F",
	7:  "SG/SF",
	8:  "G/F",
	9:  "PF/C",
	10: "F/C",
	11: "UTIL",
	12: "BE",
	13: "IR",
}

// BenchSlotID and InjuredReserveSlotID are the non-active lineup slots
const (
	BenchSlotID          = 12
	InjuredReserveSlotID = 13
)

// proTeamNames maps ESPN proTeamId to NBA team abbreviations
var proTeamNames = map[int]string{
	1:  "ATL",
	2:  "BOS",
	3:  "NOP",
	4:  "CHI",
	5:  "CLE",
	6:  "DAL",
	7:  "DEN",
	8:  "DET",
	9:  "GSW",
	10: "HOU",
	11: "IND",
	12: "LAC",
	13: "LAL",
	14: "MIA",
	15: "MIL",
	16: "MIN",
	17: "BKN",
	18: "NYK",
	19: "ORL",
	20: "PHI",
	21: "PHX",
	22: "POR",
	23: "SAC",
	24: "SAS",
	25: "OKC",
	26: "UTA",
	27: "WAS",
	28: "TOR",
	29: "MEM",
	30: "CHA",
}

// PositionName returns the abbreviation for an ESPN position ID
func PositionName(id int) string {
	if name, ok := positionNames[id]; ok {
		return name
	}
	return "UNK"
}

// LineupSlotName returns the abbreviation for an ESPN lineup slot ID
func LineupSlotName(id int) string {
	if name, ok := lineupSlotNames[id]; ok {
		return name
	}
	return "UNK"
}

// ProTeamName returns the NBA abbreviation for an ESPN pro team ID
func ProTeamName(id int) string {
	if name, ok := proTeamNames[id]; ok {
		return name
	}
	return "UNK"
}
