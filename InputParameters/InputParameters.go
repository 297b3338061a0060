package InputParameters

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ghodss/yaml"

	"github.com/notargets/gomhd/model_problems/MHD1D"
	"github.com/notargets/gomhd/types"
)

// Parameters obtained from the YAML input file. ghodss/yaml goes through
// encoding/json, so the json tags name the YAML keys. Keys YAML 1.1 reads as
// booleans (N, Y, on, off, ...) can not be used, hence NumPoints.
type InputParameters1D struct {
	Title             string  `json:"Title"`
	Case              string  `json:"Case"`
	N                 int     `json:"NumPoints"`
	XMin              float64 `json:"XMin"`
	XMax              float64 `json:"XMax"`
	Stretch           float64 `json:"Stretch"` // Grid clustering, 0 is uniform
	Gamma             float64 `json:"Gamma"`
	DT                float64 `json:"DT"`
	FinalTime         float64 `json:"FinalTime"`
	Integrator        string  `json:"Integrator"`
	BC                string  `json:"BC"`
	LogFrequency      int     `json:"LogFrequency"`
	SnapshotFrequency int     `json:"SnapshotFrequency"`
	Parallel          bool    `json:"Parallel"`
}

func NewInputParameters1D() *InputParameters1D {
	return &InputParameters1D{
		Title:        "MHD 1D",
		Case:         "BRIO_WU",
		N:            400,
		XMin:         0,
		XMax:         1,
		Gamma:        2,
		DT:           2.e-4,
		FinalTime:    0.1,
		Integrator:   "SSP_RK3",
		BC:           "Neuman",
		LogFrequency: 50,
	}
}

// Parse overlays the file's values on the receiver, keys not present keep
// their value. Unknown keys are an error.
func (ip *InputParameters1D) Parse(data []byte) (err error) {
	var js []byte
	if js, err = yaml.YAMLToJSON(data); err != nil {
		return
	}
	dec := json.NewDecoder(bytes.NewReader(js))
	dec.DisallowUnknownFields()
	if err = dec.Decode(ip); err != nil {
		err = fmt.Errorf("input parameters: %w", err)
	}
	return
}

func (ip *InputParameters1D) ReadFile(path string) (err error) {
	var data []byte
	if data, err = os.ReadFile(path); err != nil {
		return
	}
	if err = ip.Parse(data); err != nil {
		err = fmt.Errorf("parse %s: %w", path, err)
	}
	return
}

func (ip *InputParameters1D) Validate() error {
	var errs []string
	if ip.N < 2 {
		errs = append(errs, fmt.Sprintf("NumPoints must be at least 2, have %d", ip.N))
	}
	if !(ip.DT > 0) {
		errs = append(errs, fmt.Sprintf("DT must be positive, have %v", ip.DT))
	}
	if !(ip.FinalTime > 0) {
		errs = append(errs, fmt.Sprintf("FinalTime must be positive, have %v", ip.FinalTime))
	}
	if !(ip.XMax > ip.XMin) {
		errs = append(errs, fmt.Sprintf("XMax must be greater than XMin, have [%v, %v]", ip.XMin, ip.XMax))
	}
	if !(ip.Gamma > 1) {
		errs = append(errs, fmt.Sprintf("Gamma must be greater than 1, have %v", ip.Gamma))
	}
	if _, err := MHD1D.NewCaseType(ip.Case); err != nil {
		errs = append(errs, err.Error())
	}
	if _, err := MHD1D.NewIntegratorType(ip.Integrator); err != nil {
		errs = append(errs, err.Error())
	}
	if _, err := types.NewBCFLAG(ip.BC); err != nil {
		errs = append(errs, err.Error())
	}
	if len(errs) != 0 {
		return fmt.Errorf("invalid input parameters: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (ip *InputParameters1D) Print() { ip.Fprint(os.Stdout) }

func (ip *InputParameters1D) Fprint(w io.Writer) {
	fmt.Fprintf(w, "\"%s\"\t\t= Title\n", ip.Title)
	fmt.Fprintf(w, "[%s]\t\t= Case\n", ip.Case)
	fmt.Fprintf(w, "[%d]\t\t\t= NumPoints\n", ip.N)
	fmt.Fprintf(w, "[%8.5f, %8.5f]\t= X Range\n", ip.XMin, ip.XMax)
	fmt.Fprintf(w, "%8.5f\t\t= Stretch\n", ip.Stretch)
	fmt.Fprintf(w, "%8.5f\t\t= Gamma\n", ip.Gamma)
	fmt.Fprintf(w, "%8.5f\t\t= DT\n", ip.DT)
	fmt.Fprintf(w, "%8.5f\t\t= FinalTime\n", ip.FinalTime)
	fmt.Fprintf(w, "[%s]\t\t= Integrator\n", ip.Integrator)
	fmt.Fprintf(w, "[%s]\t\t= BC\n", ip.BC)
	fmt.Fprintf(w, "[%d]\t\t\t= Snapshot Frequency\n", ip.SnapshotFrequency)
	fmt.Fprintf(w, "[%v]\t\t\t= Parallel\n", ip.Parallel)
}
