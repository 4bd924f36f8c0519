package catalog

import (
	"fmt"

	"gotreat/domain/core"
)

// Matrix is a category of water or waste stream.
type Matrix struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// NoChange is the output-matrix sentinel of treatments that leave the matrix as is.
var NoChange = Matrix{}

// IsNoChange reports whether m is the NoChange sentinel.
func (m Matrix) IsNoChange() bool { return m.ID == "" }

func (m Matrix) String() string {
	if m.IsNoChange() {
		return "Matrix(no change)"
	}
	return fmt.Sprintf("Matrix(%s, %s)", m.ID, m.Name)
}

var (
	IWW = Matrix{"iww", "Industrial wastewater", "Raw wastewater from industrial sources"}
	HWW = Matrix{"hww", "Household wastewater", "Raw wastewater from households"}
	LWW = Matrix{"lww", "Landfill leachate", "Landfill leachate"}
	RWW = Matrix{"rww", "Raw wastewater", "Raw wastewater from various sources (dominated by houshold wastewater)"}
	TIW = Matrix{"tiw", "Treated industrial wastewater", "Industrial or landfill leachate after wastewater treatment (not further specified, only used for site specific data)"}
	TWW = Matrix{"tww", "Treated wastewater", "Wastewater after primary and secondary treatment"}
	STW = Matrix{"stw", "Stormwater runoff", "Urban stormwater runoff"}
	RAW = Matrix{"raw", "Rainwater", "Rainwater without runoff"}
	SUW = Matrix{"suw", "Surface water", "Surfacewater"}
	GRW = Matrix{"grw", "Groundwater", "Groundwater"}
	POW = Matrix{"pow", "Soil pore water", "Soil leachate"}
	BFW = Matrix{"bfw", "Bank filtrate", "Bank filtrate"}
	DRW = Matrix{"drw", "Drinking water", "Drinking water after treatment"}
	SDG = Matrix{"sdg", "Sludge", "Thickened sludge from treated wastewater (as part of the secondary wastewater treatment)"}
)

var allMatrices = []Matrix{IWW, HWW, LWW, RWW, TIW, TWW, STW, RAW, SUW, GRW, POW, BFW, DRW, SDG}

// Matrices returns the matrix catalog in declaration order.
func Matrices() []Matrix {
	out := make([]Matrix, len(allMatrices))
	copy(out, allMatrices)
	return out
}

// MatrixByID looks up a catalog matrix.
func MatrixByID(id string) (Matrix, error) {
	for _, m := range allMatrices {
		if m.ID == id {
			return m, nil
		}
	}
	return Matrix{}, fmt.Errorf("%w: %s", core.ErrMatrixNotFound, id)
}

func matrices(ms ...Matrix) []Matrix { return ms }
