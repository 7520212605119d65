package converter

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ginjaninja78/prisme-transactions/internal/config"
)

// ErrNoProfile is the error of a file no profile matches.
var ErrNoProfile = errors.New("no matching profile configuration found")

// Job pairs an input file with the profile that converts it. A nil Profile
// produces a failed Result wrapping ErrNoProfile.
type Job struct {
	InputPath string
	Profile   *config.ProfileConfig
}

// PlanJobs matches every file to a profile. When only is not empty, files
// matched to another profile are left out.
func PlanJobs(files []string, profiles map[string]*config.ProfileConfig, only string) []Job {
	jobs := make([]Job, 0, len(files))
	for _, file := range files {
		profile := config.FindProfile(profiles, file)
		if only != "" && (profile == nil || profile.Code != only) {
			continue
		}
		jobs = append(jobs, Job{InputPath: file, Profile: profile})
	}
	return jobs
}

// ProcessFiles converts the jobs concurrently, at most
// mainConfig.MaxConcurrency at a time, and returns the results in job
// order. Jobs not started before ctx is cancelled fail with ctx.Err().
func ProcessFiles(ctx context.Context, jobs []Job, mainConfig *config.MainConfig, opts ...Option) []Result {
	limit := mainConfig.MaxConcurrency
	if limit <= 0 {
		limit = 1
	}

	results := make([]Result, len(jobs))
	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup

	for i, job := range jobs {
		if job.Profile == nil {
			results[i] = Result{FilePath: job.InputPath, Error: fmt.Errorf("%s: %w", job.InputPath, ErrNoProfile)}
			continue
		}

		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			results[i] = Result{FilePath: job.InputPath, Profile: job.Profile.Code, Error: ctx.Err()}
			continue
		}

		wg.Add(1)
		go func(i int, job Job) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = New(job.InputPath, job.Profile, mainConfig, opts...).Run(ctx)
		}(i, job)
	}

	wg.Wait()
	return results
}
