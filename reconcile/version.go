package reconcile

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/func/beanstalk/config"
	"github.com/func/beanstalk/provider"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// VersionResult is the result of reconciling an application version.
type VersionResult struct {
	Changed  bool                          `json:"changed"`
	Version  *provider.ApplicationVersion  `json:"version,omitempty"`
	Versions []provider.ApplicationVersion `json:"versions,omitempty"`
	Deleted  []string                      `json:"deleted,omitempty"`
	Output   string                        `json:"output,omitempty"`
}

// Version reconciles an application version.
//
// Versions are immutable: an existing version with the same label is never
// updated, even if the source bundle or description differ.
func (r *Reconciler) Version(ctx context.Context, cfg config.Version) (*VersionResult, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := r.logger().With(
		zap.String("app", cfg.ApplicationName),
		zap.String("version", cfg.VersionLabel),
		zap.String("state", string(cfg.State)),
	)
	logger.Debug("Reconcile version")

	switch cfg.State {
	case config.StateList:
		versions, err := r.listVersions(ctx, cfg.ApplicationName, cfg.VersionLabel)
		if err != nil {
			return nil, err
		}
		return &VersionResult{Versions: versions}, nil
	case config.StateCleanup:
		return r.cleanupVersions(ctx, cfg, logger)
	}

	ver, err := r.describeVersion(ctx, cfg.ApplicationName, cfg.VersionLabel)
	if err != nil {
		return nil, err
	}

	if cfg.State == config.StateAbsent {
		if ver == nil {
			return &VersionResult{Output: "Version not found"}, nil
		}
		if r.Check {
			return &VersionResult{Changed: true, Version: ver, Output: "Version would be deleted"}, nil
		}
		if err := r.deleteVersion(ctx, ver, cfg, logger); err != nil {
			return nil, err
		}
		return &VersionResult{Changed: true, Version: ver, Output: "Version deleted"}, nil
	}

	if ver != nil {
		return &VersionResult{Version: ver, Output: "Version exists"}, nil
	}

	if r.Check {
		return &VersionResult{Changed: true, Output: "Version would be created"}, nil
	}
	bundle := cfg.SourceBundle()
	logger.Info("Create version", zap.Stringer("bundle", bundle))
	err = r.Client.CreateApplicationVersion(ctx, provider.ApplicationVersion{
		ApplicationName: cfg.ApplicationName,
		VersionLabel:    cfg.VersionLabel,
		Description:     cfg.Description,
		SourceBundle:    bundle,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "create version %q", cfg.VersionLabel)
	}
	ver, err = r.describeVersion(ctx, cfg.ApplicationName, cfg.VersionLabel)
	if err != nil {
		return nil, err
	}
	return &VersionResult{Changed: true, Version: ver, Output: "Version created"}, nil
}

func (r *Reconciler) describeVersion(ctx context.Context, app, label string) (*provider.ApplicationVersion, error) {
	versions, err := r.Client.DescribeApplicationVersions(ctx, app, label)
	if err != nil {
		return nil, errors.Wrapf(err, "describe version %q", label)
	}
	for i := range versions {
		if versions[i].VersionLabel == label {
			return &versions[i], nil
		}
	}
	return nil, nil
}

// listVersions returns the versions of an application, newest first.
func (r *Reconciler) listVersions(ctx context.Context, app string, labels ...string) ([]provider.ApplicationVersion, error) {
	var filter []string
	for _, l := range labels {
		if l != "" {
			filter = append(filter, l)
		}
	}
	versions, err := r.Client.DescribeApplicationVersions(ctx, app, filter...)
	if err != nil {
		return nil, errors.Wrapf(err, "list versions of %q", app)
	}
	sort.SliceStable(versions, func(i, j int) bool {
		return versions[i].Created.After(versions[j].Created)
	})
	return versions, nil
}

// deleteVersion deletes a version, and the source bundle if requested. The
// bundle observed on the version is deleted, falling back to the configured
// bundle.
func (r *Reconciler) deleteVersion(ctx context.Context, ver *provider.ApplicationVersion, cfg config.Version, logger *zap.Logger) error {
	logger.Info("Delete version", zap.String("label", ver.VersionLabel))
	if err := r.Client.DeleteApplicationVersion(ctx, ver.ApplicationName, ver.VersionLabel); err != nil {
		return errors.Wrapf(err, "delete version %q", ver.VersionLabel)
	}
	if !cfg.DeleteSourceBundle {
		return nil
	}
	bundle := ver.SourceBundle
	if bundle.Empty() {
		bundle = cfg.SourceBundle()
	}
	if bundle.Empty() {
		return nil
	}
	logger.Info("Delete source bundle", zap.Stringer("bundle", bundle))
	if err := r.Client.DeleteBundle(ctx, bundle); err != nil {
		return errors.Wrapf(err, "delete source bundle %s", bundle)
	}
	return nil
}

// cleanupVersions deletes versions last updated more than DaysToStore days ago
// or beyond the newest VersionsToStore. Versions deployed to a live
// environment are never deleted. If both limits are set, the limit that
// deletes more versions is used.
func (r *Reconciler) cleanupVersions(ctx context.Context, cfg config.Version, logger *zap.Logger) (*VersionResult, error) {
	versions, err := r.listVersions(ctx, cfg.ApplicationName)
	if err != nil {
		return nil, err
	}
	envs, err := r.Client.DescribeEnvironments(ctx, cfg.ApplicationName)
	if err != nil {
		return nil, errors.Wrapf(err, "describe environments of %q", cfg.ApplicationName)
	}
	deployed := make(map[string]bool)
	for _, e := range envs {
		if !e.Terminated() && e.VersionLabel != "" {
			deployed[e.VersionLabel] = true
		}
	}

	var byAge, byCount []provider.ApplicationVersion
	cutoff := r.now().Add(-time.Duration(cfg.DaysToStore) * 24 * time.Hour)
	for i, v := range versions {
		if deployed[v.VersionLabel] {
			logger.Debug("Keep deployed version", zap.String("label", v.VersionLabel))
			continue
		}
		if cfg.DaysToStore > 0 && v.Updated.Before(cutoff) {
			byAge = append(byAge, v)
		}
		// Positions count deployed versions too.
		if cfg.VersionsToStore > 0 && i >= cfg.VersionsToStore {
			byCount = append(byCount, v)
		}
	}

	candidates := byCount
	if len(byAge) > len(byCount) {
		candidates = byAge
	}

	res := &VersionResult{}
	for i := range candidates {
		v := &candidates[i]
		if !r.Check {
			if err := r.deleteVersion(ctx, v, cfg, logger); err != nil {
				return nil, err
			}
		}
		res.Deleted = append(res.Deleted, v.VersionLabel)
		res.Versions = append(res.Versions, *v)
	}
	res.Changed = len(res.Deleted) > 0
	switch {
	case !res.Changed:
		res.Output = "No versions to delete"
	case r.Check:
		res.Output = fmt.Sprintf("%d versions would be deleted", len(res.Deleted))
	default:
		res.Output = fmt.Sprintf("%d versions deleted", len(res.Deleted))
	}
	return res, nil
}
