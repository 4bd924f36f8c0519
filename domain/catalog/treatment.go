package catalog

import (
	"fmt"
	"strings"

	"gotreat/domain/core"
)

// TreatmentGroup classifies treatment steps.
type TreatmentGroup string

const (
	GroupDWT TreatmentGroup = "Drinking Water"
	GroupGWT TreatmentGroup = "Groundwater"
	GroupWWT TreatmentGroup = "Wastewater"
	GroupNAP TreatmentGroup = "Natural Process"
	GroupMIX TreatmentGroup = "Mixing and Separation"
)

// Treatment ids with dedicated process models.
const (
	DilutionPrefix     = "dil"
	EvaporationID      = "sepev"
	SludgeDewateringID = "wwsl"
)

// Treatment is one step of a treatment train. Catalog entries are shared and
// never mutated; the With* methods return configured copies.
type Treatment struct {
	ID            string         `json:"id"`
	Group         TreatmentGroup `json:"group"`
	Name          string         `json:"name"`
	InputMatrices []Matrix       `json:"input_matrices"`
	OutputMatrix  Matrix         `json:"output_matrix"`
	WithLitData   bool           `json:"with_lit_data"`
	Removal       RemovalPercent `json:"removal,omitempty"`
	Mixture       *Mixture       `json:"mixture,omitempty"`
}

// OutputMatrixFor returns the matrix produced when in flows into t.
func (t Treatment) OutputMatrixFor(in Matrix) Matrix {
	if t.OutputMatrix.IsNoChange() {
		return in
	}
	return t.OutputMatrix
}

// Accepts reports whether m is one of the declared input matrices.
func (t Treatment) Accepts(m Matrix) bool {
	for _, in := range t.InputMatrices {
		if in.ID == m.ID {
			return true
		}
	}
	return false
}

// InputMatrixIDs lists the accepted input matrix ids.
func (t Treatment) InputMatrixIDs() []string {
	ids := make([]string, len(t.InputMatrices))
	for i, m := range t.InputMatrices {
		ids[i] = m.ID
	}
	return ids
}

// RequiresMixture is true for dilution and evaporative separation steps.
func (t Treatment) RequiresMixture() bool {
	return strings.HasPrefix(t.ID, DilutionPrefix) || t.ID == EvaporationID
}

// WithRemoval returns a copy carrying site-specific removal percentages.
func (t Treatment) WithRemoval(r RemovalPercent) (Treatment, error) {
	if t.RequiresMixture() {
		return Treatment{}, fmt.Errorf("%w: treatment '%s' expects a mixture", core.ErrRemovalNotSupported, t.ID)
	}
	c := t.Clone()
	c.Removal = r.Clone()
	return c, nil
}

// WithMixture returns a copy carrying mixture parameters. Only 'dil*' and
// 'sepev' treatments support mixtures.
func (t Treatment) WithMixture(m Mixture) (Treatment, error) {
	if !t.RequiresMixture() {
		return Treatment{}, fmt.Errorf("%w: treatment '%s' expects removal percents", core.ErrMixtureNotSupported, t.ID)
	}
	if err := m.Validate(); err != nil {
		return Treatment{}, fmt.Errorf("%w: treatment '%s': %v", core.ErrConfiguration, t.ID, err)
	}
	c := t.Clone()
	c.Mixture = &m
	return c, nil
}

// WithoutLitData returns a copy that skips literature removal lookups.
func (t Treatment) WithoutLitData() Treatment {
	c := t.Clone()
	c.WithLitData = false
	return c
}

// Clone returns a deep copy.
func (t Treatment) Clone() Treatment {
	c := t
	c.InputMatrices = append([]Matrix(nil), t.InputMatrices...)
	c.Removal = t.Removal.Clone()
	if t.Mixture != nil {
		m := *t.Mixture
		c.Mixture = &m
	}
	return c
}

// Equal compares treatments by id.
func (t Treatment) Equal(other Treatment) bool { return t.ID == other.ID }

func (t Treatment) String() string { return fmt.Sprintf("Treatment(%s, %s)", t.ID, t.Name) }

var treatmentIndex = func() map[string]Treatment {
	idx := make(map[string]Treatment, len(allTreatments))
	for _, t := range allTreatments {
		idx[t.ID] = t
	}
	return idx
}()

// TreatmentByID returns a copy of the catalog treatment.
func TreatmentByID(id string) (Treatment, error) {
	t, ok := treatmentIndex[id]
	if !ok {
		return Treatment{}, fmt.Errorf("%w: %s", core.ErrTreatmentNotFound, id)
	}
	return t.Clone(), nil
}

// MustTreatment is TreatmentByID for ids known at compile time.
func MustTreatment(id string) Treatment {
	t, err := TreatmentByID(id)
	if err != nil {
		panic(err)
	}
	return t
}

// Treatments returns copies of the treatment catalog in declaration order.
func Treatments() []Treatment {
	out := make([]Treatment, len(allTreatments))
	for i, t := range allTreatments {
		out[i] = t.Clone()
	}
	return out
}

var allTreatments = []Treatment{
	{ID: "wwt1", Group: GroupWWT, Name: "Primary wastewater treatment", InputMatrices: matrices(RWW, IWW, HWW, STW, LWW), OutputMatrix: NoChange, WithLitData: true},
	{ID: "wwt2", Group: GroupWWT, Name: "Secondary wastewater treatment", InputMatrices: matrices(RWW, IWW, HWW, STW, LWW), OutputMatrix: TWW, WithLitData: true},
	{ID: "wwtt", Group: GroupWWT, Name: "Combination of primary and secondary wastewater treatment", InputMatrices: matrices(RWW, IWW, HWW, STW, LWW), OutputMatrix: TWW, WithLitData: true},
	{ID: "wwco", Group: GroupWWT, Name: "Tertiary wastewater treatment: Coagulation and filtration", InputMatrices: matrices(TWW, IWW), OutputMatrix: TWW, WithLitData: true},
	{ID: "wwel", Group: GroupWWT, Name: "Tertiary wastewater treatment: Electro-oxidation (e-peroxone)", InputMatrices: matrices(TWW, IWW), OutputMatrix: TWW, WithLitData: true},
	{ID: "wwuf", Group: GroupWWT, Name: "Tertiary wastewater treatment: Ultrafiltration", InputMatrices: matrices(TWW, IWW), OutputMatrix: TWW, WithLitData: true},
	{ID: "wwnf", Group: GroupWWT, Name: "Tertiary wastewater treatment: Nanofiltration", InputMatrices: matrices(TWW, IWW), OutputMatrix: TWW, WithLitData: true},
	{ID: "wwro", Group: GroupWWT, Name: "Tertiary wastewater treatment: Reverse Osmosis", InputMatrices: matrices(TWW, IWW), OutputMatrix: TWW, WithLitData: true},
	{ID: "wwmb", Group: GroupWWT, Name: "Tertiary wastewater treatment: Membrane bioreactor", InputMatrices: matrices(RWW, IWW, HWW, STW, TWW, LWW), OutputMatrix: TWW, WithLitData: true},
	{ID: "wwsl", Group: GroupWWT, Name: "Combination of primary and secondary wastewater treatment: dewatered sludge", InputMatrices: matrices(RWW, HWW), OutputMatrix: SDG, WithLitData: true},
	{ID: "wetl", Group: GroupWWT, Name: "Additional treatment: Constructed wetland", InputMatrices: matrices(RWW, IWW, HWW, STW, TWW, LWW), OutputMatrix: TWW, WithLitData: true},
	{ID: "dilsw", Group: GroupMIX, Name: "Dilution by surface water", InputMatrices: matrices(TWW, STW), OutputMatrix: SUW, WithLitData: true},
	{ID: "dilww", Group: GroupMIX, Name: "Dilution by household wastewater", InputMatrices: matrices(IWW, LWW, RWW, TWW), OutputMatrix: RWW, WithLitData: true},
	{ID: "dilgw", Group: GroupMIX, Name: "Dilution by groundwater", InputMatrices: matrices(BFW, POW, GRW), OutputMatrix: GRW, WithLitData: true},
	{ID: "dilpr", Group: GroupMIX, Name: "Dilution by process water (from minor secondary stream)", InputMatrices: matrices(TWW, IWW, HWW, RWW, LWW, DRW), OutputMatrix: NoChange, WithLitData: true},
	{ID: "dilrw", Group: GroupMIX, Name: "Dilution by soil irrigation water", InputMatrices: matrices(SUW, TWW, STW, SDG), OutputMatrix: POW, WithLitData: true},
	{ID: "sepev", Group: GroupMIX, Name: "Separation dueto evaporation", InputMatrices: matrices(SUW, POW), OutputMatrix: NoChange, WithLitData: true},
	{ID: "npdgw", Group: GroupNAP, Name: "NaturalProcess: Degradation in surface water (biotic and abiotic)", InputMatrices: matrices(SUW), OutputMatrix: NoChange, WithLitData: true},
	{ID: "npdgg", Group: GroupNAP, Name: "NaturalProcess: Degradation in groundwater (biotic and abiotic)", InputMatrices: matrices(GRW), OutputMatrix: NoChange, WithLitData: true},
	{ID: "npbk", Group: GroupNAP, Name: "Natural Process: Bank filtration", InputMatrices: matrices(SUW), OutputMatrix: BFW, WithLitData: true},
	{ID: "npdgs", Group: GroupNAP, Name: "NaturalProcess: Degradation in soil(biotic and abiotic)", InputMatrices: matrices(POW), OutputMatrix: NoChange, WithLitData: true},
	{ID: "dwex", Group: GroupDWT, Name: "Drinking water treatment: anion exchange", InputMatrices: matrices(SUW, BFW, GRW, DRW, TWW, STW), OutputMatrix: DRW, WithLitData: true},
	{ID: "dwcy", Group: GroupDWT, Name: "Drinking water treatment: cyclodextrin", InputMatrices: matrices(SUW, BFW, GRW, DRW, TWW, STW), OutputMatrix: DRW, WithLitData: true},
	{ID: "dwae", Group: GroupDWT, Name: "Drinking water treatment: aeration", InputMatrices: matrices(SUW, BFW, GRW, DRW, TWW, STW), OutputMatrix: DRW, WithLitData: true},
	{ID: "dwrf", Group: GroupDWT, Name: "Drinking water treatment: rapid filtration", InputMatrices: matrices(SUW, BFW, GRW, DRW, TWW, STW), OutputMatrix: DRW, WithLitData: true},
	{ID: "dwro", Group: GroupDWT, Name: "Drinking water treatment: reverse osmosis", InputMatrices: matrices(SUW, BFW, GRW, DRW, TWW, STW), OutputMatrix: DRW, WithLitData: true},
	{ID: "dwcl", Group: GroupDWT, Name: "Drinking water treatment: chloride", InputMatrices: matrices(SUW, BFW, GRW, DRW, TWW, STW), OutputMatrix: DRW, WithLitData: true},
	{ID: "dwna", Group: GroupDWT, Name: "Drinking water treatment: NaOCl", InputMatrices: matrices(SUW, BFW, GRW, DRW, TWW, STW), OutputMatrix: DRW, WithLitData: true},
	{ID: "dwuv", Group: GroupDWT, Name: "Drinking water treatment: UV", InputMatrices: matrices(SUW, BFW, GRW, DRW, TWW, STW), OutputMatrix: DRW, WithLitData: true},
	{ID: "dwac", Group: GroupDWT, Name: "Drinking water treatment: granular activated carbon", InputMatrices: matrices(SUW, BFW, GRW, DRW, TWW, STW), OutputMatrix: DRW, WithLitData: true},
	{ID: "dwuf", Group: GroupDWT, Name: "Drinking water treatment: ultra filtration", InputMatrices: matrices(SUW, BFW, GRW, DRW, TWW, STW), OutputMatrix: DRW, WithLitData: true},
	{ID: "dwde", Group: GroupDWT, Name: "Drinking water treatment: decantation", InputMatrices: matrices(SUW, BFW, GRW, DRW, TWW, STW), OutputMatrix: DRW, WithLitData: true},
	{ID: "dwoz", Group: GroupDWT, Name: "Drinking water treatment: disinfection with chlorineor ozone", InputMatrices: matrices(SUW, BFW, GRW, DRW, TWW, STW), OutputMatrix: DRW, WithLitData: true},
	{ID: "dwpr", Group: GroupDWT, Name: "Drinking water treatment: pretreatment with pre disinfection (chlorine)", InputMatrices: matrices(SUW, BFW, GRW, DRW, TWW, STW), OutputMatrix: DRW, WithLitData: true},
	{ID: "dwco", Group: GroupDWT, Name: "Drinking water treatment: coagulation and flocculation", InputMatrices: matrices(SUW, BFW, GRW, DRW, TWW, STW), OutputMatrix: DRW, WithLitData: true},
	{ID: "grpz", Group: GroupGWT, Name: "Groundwater treatment: Persulfate-based insitu chemical oxidation- (n)ZVI", InputMatrices: matrices(GRW), OutputMatrix: NoChange, WithLitData: true},
	{ID: "grpf", Group: GroupGWT, Name: "Groundwater treatment: Persulfate-based insitu chemical oxidation- (n)ZVI+Fe(VI)", InputMatrices: matrices(GRW), OutputMatrix: NoChange, WithLitData: true},
	{ID: "gren", Group: GroupGWT, Name: "Groundwater treatment: catalysis by extra cellular ligninolytic enzymes", InputMatrices: matrices(GRW), OutputMatrix: NoChange, WithLitData: true},
	{ID: "gruc", Group: GroupGWT, Name: "Groundwater treatment: ultrasonic cavitation", InputMatrices: matrices(GRW), OutputMatrix: NoChange, WithLitData: true},
}
