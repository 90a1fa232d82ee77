package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/fieldlab/internal/engine"
)

// Store persists simulation runs under a base directory. Each run gets
// its own subdirectory with a metadata.json and a series.csv of per-step
// field statistics.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Timestamp time.Time          `json:"timestamp"`
	GridSize  int                `json:"grid_size"`
	Length    float64            `json:"length"`
	Dt        float64            `json:"dt"`
	Steps     int                `json:"steps"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Sample is one recorded step of a run.
type Sample struct {
	Step      int     `json:"step"`
	Time      float64 `json:"time"`
	RhoMin    float64 `json:"rho_min"`
	RhoMax    float64 `json:"rho_max"`
	RhoRMS    float64 `json:"rho_rms"`
	ExcitRMS  float64 `json:"excit_rms"`
	RegRMS    float64 `json:"reg_rms"`
	TotalMass float64 `json:"total_mass"`
	Warnings  int     `json:"warnings"`
	Engaged   bool    `json:"engaged"`
	Broken    int     `json:"broken"`
}

// SampleFrom converts engine statistics into a storable row.
func SampleFrom(st engine.Statistics) Sample {
	return Sample{
		Step:      st.Step,
		Time:      float64(st.Step) * st.Dt,
		RhoMin:    st.Rho.Min,
		RhoMax:    st.Rho.Max,
		RhoRMS:    st.Rho.RMS,
		ExcitRMS:  st.Excit.RMS,
		RegRMS:    st.Reg.RMS,
		TotalMass: st.TotalMass,
		Warnings:  st.StabilityWarnings,
		Engaged:   st.ThresholdEngaged,
		Broken:    st.BrokenCells,
	}
}

var seriesHeader = []string{
	"step", "time", "rho_min", "rho_max", "rho_rms",
	"excit_rms", "reg_rms", "total_mass", "warnings", "engaged", "broken",
}

func (s *Store) Save(meta RunMetadata, series []Sample) (string, error) {
	if meta.ID == "" {
		meta.ID = fmt.Sprintf("%s_%d", meta.Preset, time.Now().Unix())
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "series.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(seriesHeader); err != nil {
		return "", err
	}

	for _, sm := range series {
		row := []string{
			strconv.Itoa(sm.Step),
			strconv.FormatFloat(sm.Time, 'f', 6, 64),
			strconv.FormatFloat(sm.RhoMin, 'g', 9, 64),
			strconv.FormatFloat(sm.RhoMax, 'g', 9, 64),
			strconv.FormatFloat(sm.RhoRMS, 'g', 9, 64),
			strconv.FormatFloat(sm.ExcitRMS, 'g', 9, 64),
			strconv.FormatFloat(sm.RegRMS, 'g', 9, 64),
			strconv.FormatFloat(sm.TotalMass, 'g', 9, 64),
			strconv.Itoa(sm.Warnings),
			strconv.FormatBool(sm.Engaged),
			strconv.Itoa(sm.Broken),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return meta.ID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadSeries(runID string) ([]Sample, error) {
	csvPath := filepath.Join(s.baseDir, runID, "series.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []Sample{}, nil
	}

	series := make([]Sample, 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < len(seriesHeader) {
			continue
		}

		var sm Sample
		step, err := strconv.Atoi(record[0])
		if err != nil {
			continue
		}
		sm.Step = step
		sm.Time, _ = strconv.ParseFloat(record[1], 64)
		sm.RhoMin, _ = strconv.ParseFloat(record[2], 64)
		sm.RhoMax, _ = strconv.ParseFloat(record[3], 64)
		sm.RhoRMS, _ = strconv.ParseFloat(record[4], 64)
		sm.ExcitRMS, _ = strconv.ParseFloat(record[5], 64)
		sm.RegRMS, _ = strconv.ParseFloat(record[6], 64)
		sm.TotalMass, _ = strconv.ParseFloat(record[7], 64)
		sm.Warnings, _ = strconv.Atoi(record[8])
		sm.Engaged, _ = strconv.ParseBool(record[9])
		sm.Broken, _ = strconv.Atoi(record[10])

		series = append(series, sm)
	}

	return series, nil
}

func (s *Store) Delete(runID string) error {
	return os.RemoveAll(filepath.Join(s.baseDir, runID))
}
