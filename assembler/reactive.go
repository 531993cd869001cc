package assembler

import "github.com/drblury/fnweaver/discovery"

// BuildReactive merges the exports of every function module into its
// group's bucket. Modules scanned later win on name collisions. A load
// failure is returned as is and aborts the pass.
func (a *Assembler) BuildReactive() error {
	a.logger.Info("Reactive functions - building", "root", a.root)

	files, err := a.source.List(discovery.Pattern(a.functionSuffix))
	if err != nil {
		return err
	}

	added := 0
	for _, file := range files {
		group := discovery.ResolveGroup(file, a.groupByFolder)
		name := discovery.TrimSuffix(file, a.functionSuffix)

		if a.filter != "" && a.filter != name {
			a.logger.Debug("Reactive functions - skipped", "group", group, "name", name, "filter", a.filter)
			continue
		}

		values, err := a.source.Load(file)
		if err != nil {
			return err
		}

		for _, key := range a.exports.Merge(group, values) {
			a.logger.Debug("Reactive functions - overridden", "group", group, "key", key, "file", file)
		}
		a.logger.Info("Reactive functions - added", "group", group, "name", name, "file", file)
		added++
	}

	a.logger.Info("Reactive functions - built", "files", added)
	return nil
}
