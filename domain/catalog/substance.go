package catalog

import (
	"fmt"

	"gotreat/domain/core"
)

// SubstanceGroup classifies substances for reporting.
type SubstanceGroup string

const (
	GroupPFAS           SubstanceGroup = "PFAS"
	GroupIPMT           SubstanceGroup = "iPM(T)"
	GroupPharmaceutical SubstanceGroup = "Pharmaceutical"
)

// Substance is a chemical tracked through a treatment train. Starting
// concentration and reference overrides take precedence over case-study and
// literature data.
type Substance struct {
	ID                    string                 `json:"id" yaml:"id"`
	Group                 SubstanceGroup         `json:"group" yaml:"group"`
	Name                  string                 `json:"name" yaml:"name"`
	CAS                   string                 `json:"cas,omitempty" yaml:"cas,omitempty"`
	StartingConcentration *StartingConcentration `json:"starting_concentration,omitempty" yaml:"-"`
	Reference             *Reference             `json:"reference,omitempty" yaml:"-"`
}

// WithStartingConcentration returns a copy of s carrying the override.
func (s Substance) WithStartingConcentration(sc StartingConcentration) Substance {
	s.StartingConcentration = &sc
	return s
}

// WithReference returns a copy of s carrying the override.
func (s Substance) WithReference(r Reference) Substance {
	s.Reference = &r
	return s
}

// Equal compares substances by id.
func (s Substance) Equal(other Substance) bool { return s.ID == other.ID }

var substanceIndex = func() map[string]Substance {
	idx := make(map[string]Substance, len(allSubstances))
	for _, s := range allSubstances {
		idx[s.ID] = s
	}
	return idx
}()

// SubstanceByID looks up a catalog substance.
func SubstanceByID(id string) (Substance, error) {
	s, ok := substanceIndex[id]
	if !ok {
		return Substance{}, fmt.Errorf("%w: %s", core.ErrSubstanceNotFound, id)
	}
	return s, nil
}

// Substances returns the substance catalog in declaration order.
func Substances() []Substance {
	out := make([]Substance, len(allSubstances))
	copy(out, allSubstances)
	return out
}

var allSubstances = []Substance{
	{ID: "tfmsa", Group: GroupPFAS, Name: "Trifluoromethanesulfonic acid", CAS: "1493-13-6"},
	{ID: "pfba", Group: GroupPFAS, Name: "Perfluorobutanoic acid", CAS: "375-22-4"},
	{ID: "pfpea", Group: GroupPFAS, Name: "Perfluoropentanoic acid", CAS: "2706-90-3"},
	{ID: "pfhxa", Group: GroupPFAS, Name: "Perfluorohexanoic acid", CAS: "307-24-4"},
	{ID: "pfhpa", Group: GroupPFAS, Name: "Perfluoroheptanoic acid", CAS: "375-85-9"},
	{ID: "pfoa", Group: GroupPFAS, Name: "Perfluorooctanoic acid", CAS: "335-67-1"},
	{ID: "pfna", Group: GroupPFAS, Name: "Perfluorononanoic acid", CAS: "375-95-1"},
	{ID: "pfda", Group: GroupPFAS, Name: "Perfluorodecanoic acid", CAS: "335-76-2"},
	{ID: "pfunda", Group: GroupPFAS, Name: "Perfluoroundecanoic acid", CAS: "2058-94-8"},
	{ID: "pfdoda", Group: GroupPFAS, Name: "Perfluorododecanoic acid", CAS: "307-55-1"},
	{ID: "pftrda", Group: GroupPFAS, Name: "Perfluorotridecanoic acid", CAS: "72629-94-8"},
	{ID: "pfteda", Group: GroupPFAS, Name: "Perfluoro-n-tetradecanoic acid", CAS: "376-06-7"},
	{ID: "pfets", Group: GroupPFAS, Name: "Pentafluoroethanesulfonic acid", CAS: "354-88-1"},
	{ID: "pfprs", Group: GroupPFAS, Name: "Perfluoropropan-1-sulfonic cid", CAS: "423-41-6"},
	{ID: "pfbs", Group: GroupPFAS, Name: "Perfluorobutane sulfonic acid", CAS: "375-73-5"},
	{ID: "pfpes", Group: GroupPFAS, Name: "Perfluoropentane sulfonic acid", CAS: "2706-91-4"},
	{ID: "pfhxs", Group: GroupPFAS, Name: "Perfluorohexane sulfonic acid", CAS: "355-46-4"},
	{ID: "pfhps", Group: GroupPFAS, Name: "Perfluoroheptane sulfonic acid", CAS: "375-92-8"},
	{ID: "pfos", Group: GroupPFAS, Name: "Perfluorooctane sulfonic acid", CAS: "1763-23-1"},
	{ID: "pfns", Group: GroupPFAS, Name: "Perfluorononane sulfonic acid", CAS: "01.12.2723"},
	{ID: "pfds", Group: GroupPFAS, Name: "Perfluorodecane sulfonic acid", CAS: "335-77-3"},
	{ID: "pfunds", Group: GroupPFAS, Name: "Perfluoroundecane sulfonic acid", CAS: "749786-16-1"},
	{ID: "pfdods", Group: GroupPFAS, Name: "Perfluorododecane sulfonic acid", CAS: "335-77-3"},
	{ID: "pftrds", Group: GroupPFAS, Name: "Perfluorotridecane sulfonic acid", CAS: "791563-89-8"},
	{ID: "_10_2ftca", Group: GroupPFAS, Name: "10:2 FTCA, 10:2 fluorotelomer carboxylic acid", CAS: "53826-13-4"},
	{ID: "_4_2ftca", Group: GroupPFAS, Name: "4:2 FTCA, 4:2 fluorotelomer carboxylic acid"},
	{ID: "_6_2dipap", Group: GroupPFAS, Name: "6:2diPAP, 6:2-Fluortelomerphosphatdiester", CAS: "57677-95-9"},
	{ID: "_6_2ftca", Group: GroupPFAS, Name: "6:2 FTCA, 6:2 fluorotelomer carboxylic acid", CAS: "99199-59-4"},
	{ID: "_8_2ftca", Group: GroupPFAS, Name: "8:2 FTCA, 8:2 fluorotelomer carboxylic acid", CAS: "161094-76-4"},
	{ID: "_8_2ftuca", Group: GroupPFAS, Name: "(E) 8:2 FTUCA (2E)-3-(Perfluoroheptyl)-3-fluoroprop-2-enoic acid", CAS: "70887-84-2"},
	{ID: "nadona", Group: GroupPFAS, Name: "NaDONA, Dodecafluoro-3H-4,8-dioxanonanoic Acid"},
	{ID: "adona", Group: GroupPFAS, Name: "ADONA, 3H-Perfluoro-3-[(3-methoxy-propoxy)propanoic acid]", CAS: "919005-14-4"},
	{ID: "etfosa", Group: GroupPFAS, Name: "EtFOSA, n-Ethyl perfluorooctane sulfonamide ethanol", CAS: "1691-99-2"},
	{ID: "etfosaa", Group: GroupPFAS, Name: "EtFOSAA, n-Ethyl perfluorooctane sulfonamide acetic acid", CAS: "2991-50-6"},
	{ID: "fosa", Group: GroupPFAS, Name: "FOSA, 1,1,2,2,3,3,4,4,5,5,6,6,7,7,8,8,8-Heptadecafluorooctane-1-sulfonamide (also pfosa)", CAS: "754-91-6"},
	{ID: "fosaa", Group: GroupPFAS, Name: "FOSAA, Perfluorooctane sulfonamide acetic acid", CAS: "2806-24-8"},
	{ID: "mefosaa", Group: GroupPFAS, Name: "MeFOSAA, n-Methyl perfluorooctane sulfonamide acetic acid", CAS: "2355-31-9"},
	{ID: "mefosa", Group: GroupPFAS, Name: "MeFOSA, n-Methyl perfluorooctane sulfonamide", CAS: "31506-32-8"},
	{ID: "_8_2dipap", Group: GroupPFAS, Name: "8:2 diPAP, Bis(1H,1H,2H,2H-perfluorodecyl) phosphate", CAS: "678-41-1"},
	{ID: "_10_2ftoh", Group: GroupPFAS, Name: "10:2 FTOH, 10:2 1H,1H,2H,2H-Perfluorododecan-1-ol", CAS: "865-86-1"},
	{ID: "_12_2ftoh", Group: GroupPFAS, Name: "12:2 FTOH, 1H,1H,2H,2H-Perfluorotetradecan-1-ol", CAS: "39239-77-5"},
	{ID: "_14_2ftoh", Group: GroupPFAS, Name: "14:2 FTOH, 14:2 Fluorotelomer alcohol", CAS: "60699-51-6"},
	{ID: "_2_2ftoh", Group: GroupPFAS, Name: "2:2 FTOH, 2:2 1H,1H,2H,2H-Perfluorobutan-1-ol", CAS: "54949-74-5"},
	{ID: "_4_2ftoh", Group: GroupPFAS, Name: "4:2 FTOH, 2-(Perfluorobutyl)ethanol", CAS: "2043-47-2"},
	{ID: "_6_2ftab", Group: GroupPFAS, Name: "6:2 FTAB, 6:2 fluorotelomer sulfonamide alkylbetaine", CAS: "34455-29-3"},
	{ID: "_6_2ftoh", Group: GroupPFAS, Name: "6:2 FTOH, 6:2 Fluorotelomer alcohol", CAS: "647-42-7"},
	{ID: "_8_2ftoh", Group: GroupPFAS, Name: "8:2 FTOH, 8:2 Fluorotelomer alcohol", CAS: "678-39-7"},
	{ID: "_4_2fts", Group: GroupPFAS, Name: "4:2 FTS", CAS: "757124-72-4"},
	{ID: "_6_2fts", Group: GroupPFAS, Name: "6:2 FTS, Sodium 1H,1H,2H,2H-perfluorooctanesulfonate", CAS: "27619-97-2"},
	{ID: "_8_2fts", Group: GroupPFAS, Name: "8:2 FTS", CAS: "39108-34-4"},
	{ID: "mefbsa", Group: GroupPFAS, Name: "MeFBSA, N-Methylperfluoro-1-butanesulfonamide", CAS: "68298-12-4"},
	{ID: "fhxsa", Group: GroupPFAS, Name: "1,1,2,2,3,3,4,4,5,5,6,6,6-tridecafluoro-1-hexanesulfonamide", CAS: "41997-13-1"},
	{ID: "_6_2ftsam", Group: GroupPFAS, Name: "6:2FTSAM, 6:2 sulfonamide alkylbetaine", CAS: "34455-29-3"},
	{ID: "pfmoaa", Group: GroupPFAS, Name: "PFMOAA, Perfluoro-2-methoxyacetic acid", CAS: "674-13-5"},
	{ID: "pfmopra", Group: GroupPFAS, Name: "PFMOPrA, Perfluoro-3-methoxy-propanoic acid", CAS: "377-73-1"},
	{ID: "pfmoba", Group: GroupPFAS, Name: "PFMOBA, Perfluoro-4-methoxy-butanic acid", CAS: "863090-89-5"},
	{ID: "pfpropra", Group: GroupPFAS, Name: "PFPrOPrA, Perfluoro-2-propoxypropanoic acid", CAS: "13252-13-6"},
	{ID: "pfo2hxa", Group: GroupPFAS, Name: "PFO2HxA, 2-[difluoro(trifluoromethoxy)methoxy]-2,2-difluoroacetic acid", CAS: "39492-88-1"},
	{ID: "pfo3oa", Group: GroupPFAS, Name: "PFO3OA, Perfluoro-3,5,7-trioxaoctanoic acid", CAS: "39492-89-2"},
	{ID: "pfo4da", Group: GroupPFAS, Name: "PFO4DA,Perfluoro-3,5,7,9-butaoxadecanoic acid", CAS: "39492-90-5"},
	{ID: "genx", Group: GroupPFAS, Name: "GenX, ,3,3,3-tetrafluoro-2-(heptafluoropropoxy) propanoate", CAS: "62037-80-3"},
	{ID: "_14_d", Group: GroupIPMT, Name: "1,4-dioxane", CAS: "123-91-1"},
	{ID: "benzo", Group: GroupIPMT, Name: "Benzotriazole,1H-1,2,3-benzotriazole", CAS: "95-14-7"},
	{ID: "bpa", Group: GroupIPMT, Name: "Bisphenol A, 4,4'-(propan-2,2-diil)difenolo", CAS: "80-05-7"},
	{ID: "cbz", Group: GroupPharmaceutical, Name: "Carbamazepin5H-dibenzo [b,f]azepina-5-carbossammide", CAS: "298-46-4"},
	{ID: "dep", Group: GroupIPMT, Name: "diethylphthalate", CAS: "84-66-2"},
	{ID: "dbp", Group: GroupIPMT, Name: "dibuthylphthalate", CAS: "84-74-2"},
	{ID: "diuron", Group: GroupIPMT, Name: "diuron", CAS: "330-54-1"},
}
