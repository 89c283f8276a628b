package export

import (
	"github.com/hashicorp/go-multierror"

	"gitlab.com/tinyland/lab/perf-pulse/overlay"
)

// WriteAll writes report.json and one graph image per metric in r. A
// failed image does not stop the others; all failures are returned
// together.
func (s *Store) WriteAll(r overlay.Report, width, height int) error {
	if err := s.WriteReport(r); err != nil {
		return err
	}

	var result *multierror.Error
	for _, m := range r.Metrics {
		spec := overlay.SpecFor(m.Kind, m.Floor)
		path, err := s.WriteGraphPNG(m.Kind, m.Snapshot.History, spec, width, height)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		s.logger.Debug("graph exported", "metric", m.Kind.String(), "path", path)
	}
	return result.ErrorOrNil()
}
