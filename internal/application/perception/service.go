// Package perception orchestrates the RingSense pipeline: SDF input,
// molecule normalisation, and per-molecule ring/aromaticity reporting.
// It is the seam the CLI and embedders use; the domain package stays free
// of I/O, logging, and metrics.
package perception

import (
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/RingSense/internal/config"
	"github.com/turtacn/RingSense/internal/domain/molecule"
	"github.com/turtacn/RingSense/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/RingSense/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/RingSense/internal/infrastructure/sdf"
	"github.com/turtacn/RingSense/pkg/errors"
)

// MoleculeReport is the observable outcome of perceiving one molecule.
type MoleculeReport struct {
	Name                string `json:"name,omitempty"`
	MoleculeId          uint64 `json:"molecule_id"`
	Atoms               int    `json:"atoms"`
	Bonds               int    `json:"bonds"`
	Frerejacque         int    `json:"frerejacque"`
	Rings               int    `json:"rings"`
	RingSystems         int    `json:"ring_systems"`
	AromaticRings       int    `json:"aromatic_rings"`
	AromaticRingSystems int    `json:"aromatic_ring_systems"`
	Error               string `json:"error,omitempty"`
}

// BatchReport aggregates one input stream's worth of molecule reports.
type BatchReport struct {
	BatchId   string           `json:"batch_id"`
	Source    string           `json:"source,omitempty"`
	Molecules []MoleculeReport `json:"molecules"`
	Failed    int              `json:"failed"`
}

// Service runs perception over SDF inputs with logging and metrics.
type Service struct {
	cfg     *config.Config
	log     logging.Logger
	metrics *prometheus.PerceptionMetrics
	hooks   sdf.Hooks
}

// NewService wires a perception service.  The metrics argument may be nil
// when collection is disabled.
func NewService(cfg *config.Config, log logging.Logger, metrics *prometheus.PerceptionMetrics) *Service {
	if cfg == nil {
		cfg = config.NewDefault()
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Service{
		cfg:     cfg,
		log:     log.Named("perception"),
		metrics: metrics,
	}
}

// SetHooks forwards reader hooks to every stream this service opens.
func (s *Service) SetHooks(h sdf.Hooks) { s.hooks = h }

// AnalyzeFile runs AnalyzeStream over the named SD file.
func (s *Service) AnalyzeFile(path string) (*BatchReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidArgument, "cannot open "+path)
	}
	defer f.Close()

	report, err := s.AnalyzeStream(f)
	if report != nil {
		report.Source = path
	}
	return report, err
}

// AnalyzeStream reads molecules off the stream, normalises each, and
// answers the batch report.  Normalisation failures are recorded in the
// molecule's report and do not abort the batch; a reader error ends the
// batch and is returned together with the partial report.
func (s *Service) AnalyzeStream(r io.Reader) (*BatchReport, error) {
	batch := &BatchReport{BatchId: uuid.NewString()}
	log := s.log.With(logging.String("batch_id", batch.BatchId))

	reader := sdf.NewReader(r, s.cfg.SDF, s.log)
	reader.SetHooks(s.hooks)

	for {
		start := time.Now()
		mol, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			if s.metrics != nil {
				s.metrics.SDFMoleculesParsedTotal.WithLabelValues("error").Inc()
			}
			return batch, err
		}
		if s.metrics != nil {
			s.metrics.SDFMoleculesParsedTotal.WithLabelValues("ok").Inc()
			s.metrics.SDFParseDuration.WithLabelValues().Observe(time.Since(start).Seconds())
		}

		batch.Molecules = append(batch.Molecules, s.perceive(mol, log))
		if batch.Molecules[len(batch.Molecules)-1].Error != "" {
			batch.Failed++
		}
	}

	log.Info("batch analysed",
		logging.Int("molecules", len(batch.Molecules)),
		logging.Int("failed", batch.Failed))
	return batch, nil
}

// Perceive normalises one already-built molecule and answers its report.
func (s *Service) Perceive(mol *molecule.Molecule) MoleculeReport {
	return s.perceive(mol, s.log)
}

func (s *Service) perceive(mol *molecule.Molecule, log logging.Logger) MoleculeReport {
	mol.SetFrerejacqueLimit(s.cfg.Perception.MaxFrerejacque)

	start := time.Now()
	err := mol.Normalise()
	if s.metrics != nil {
		s.metrics.ObserveNormalise(time.Since(start), err)
	}

	rep := MoleculeReport{
		Name:        mol.VendorMoleculeId(),
		MoleculeId:  mol.Id(),
		Atoms:       mol.AtomCount(),
		Bonds:       mol.BondCount(),
		Frerejacque: mol.Frerejacque(),
	}
	if err != nil {
		rep.Error = err.Error()
		log.Error("normalise failed",
			logging.Uint64("molecule_id", mol.Id()), logging.Err(err))
		return rep
	}

	rep.Rings = mol.RingCount()
	rep.RingSystems = mol.RingSystemCount()
	rep.AromaticRings = mol.AromaticRingCount()
	rep.AromaticRingSystems = mol.AromaticRingSystemCount()

	if s.metrics != nil {
		s.metrics.RingsDetectedTotal.WithLabelValues().Add(float64(rep.Rings))
		s.metrics.RingSystemsTotal.WithLabelValues().Add(float64(rep.RingSystems))
		s.metrics.AromaticRingsTotal.WithLabelValues().Add(float64(rep.AromaticRings))
	}

	log.Debug("molecule perceived",
		logging.Uint64("molecule_id", mol.Id()),
		logging.Int("rings", rep.Rings),
		logging.Int("ring_systems", rep.RingSystems))
	return rep
}
