package cli

import (
	"fmt"
	"strconv"
	"strings"

	"talent-match/internal/delivery/http/dto"
	"talent-match/internal/domain/matching"

	"github.com/spf13/cobra"
)

type loader func() (*session, error)

func newScoreCmd(load loader) *cobra.Command {
	var jobFile, candidateFile string
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score one job posting against one candidate profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := load()
			if err != nil {
				return err
			}
			var job dto.JobPosting
			if err := readJSON(jobFile, &job); err != nil {
				return err
			}
			var cand dto.CandidateProfile
			if err := readJSON(candidateFile, &cand); err != nil {
				return err
			}

			res, err := s.service.ScoreDirect(cmd.Context(), job.ToDomain(), cand.ToDomain())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), dto.NewMatchResult(res))
		},
	}
	cmd.Flags().StringVar(&jobFile, "job", "", "job posting JSON file, - for stdin")
	cmd.Flags().StringVar(&candidateFile, "candidate", "", "candidate profile JSON file, - for stdin")
	_ = cmd.MarkFlagRequired("job")
	_ = cmd.MarkFlagRequired("candidate")
	return cmd
}

func newRankCandidatesCmd(load loader) *cobra.Command {
	var jobFile, poolFile string
	cmd := &cobra.Command{
		Use:   "rank-candidates",
		Short: "Rank a pool of candidate profiles for one job posting",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := load()
			if err != nil {
				return err
			}
			var job dto.JobPosting
			if err := readJSON(jobFile, &job); err != nil {
				return err
			}
			var pool []dto.CandidateProfile
			if err := readJSON(poolFile, &pool); err != nil {
				return err
			}

			out, err := s.service.RankCandidatesForJob(cmd.Context(), job.ToDomain(), dto.CandidatesToDomain(pool), s.rankOptions())
			if err != nil {
				return err
			}
			s.logger.Debug("ranked candidates", "pool", len(pool), "returned", len(out))
			return writeJSON(cmd.OutOrStdout(), dto.NewCandidateMatches(out))
		},
	}
	cmd.Flags().StringVar(&jobFile, "job", "", "job posting JSON file")
	cmd.Flags().StringVar(&poolFile, "candidates", "", "JSON array of candidate profiles")
	_ = cmd.MarkFlagRequired("job")
	_ = cmd.MarkFlagRequired("candidates")
	return cmd
}

func newRankJobsCmd(load loader) *cobra.Command {
	var candidateFile, poolFile string
	cmd := &cobra.Command{
		Use:   "rank-jobs",
		Short: "Rank a pool of job postings for one candidate profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := load()
			if err != nil {
				return err
			}
			var cand dto.CandidateProfile
			if err := readJSON(candidateFile, &cand); err != nil {
				return err
			}
			var pool []dto.JobPosting
			if err := readJSON(poolFile, &pool); err != nil {
				return err
			}

			out, err := s.service.RankJobsForCandidate(cmd.Context(), cand.ToDomain(), dto.JobsToDomain(pool), s.rankOptions())
			if err != nil {
				return err
			}
			s.logger.Debug("ranked jobs", "pool", len(pool), "returned", len(out))
			return writeJSON(cmd.OutOrStdout(), dto.NewJobMatches(out))
		},
	}
	cmd.Flags().StringVar(&candidateFile, "candidate", "", "candidate profile JSON file")
	cmd.Flags().StringVar(&poolFile, "jobs", "", "JSON array of job postings")
	_ = cmd.MarkFlagRequired("candidate")
	_ = cmd.MarkFlagRequired("jobs")
	return cmd
}

func newNearbyCmd(load loader) *cobra.Command {
	var poolFile string
	var lat, lon float64
	cmd := &cobra.Command{
		Use:   "nearby",
		Short: "List job postings within max-distance-km of a point, in file order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := load()
			if err != nil {
				return err
			}
			var pool []dto.JobPosting
			if err := readJSON(poolFile, &pool); err != nil {
				return err
			}

			maxKm := s.settings.MaxDistanceKm
			if maxKm <= 0 {
				maxKm = matching.DefaultMaxDistanceKm
			}
			ref := matching.Coordinates{Latitude: lat, Longitude: lon}
			out, err := s.service.FilterByProximity(cmd.Context(), dto.JobsToDomain(pool), ref, maxKm)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), dto.NewJobDistances(out))
		},
	}
	cmd.Flags().StringVar(&poolFile, "jobs", "", "JSON array of job postings")
	cmd.Flags().Float64Var(&lat, "lat", 0, "reference latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "reference longitude")
	_ = cmd.MarkFlagRequired("jobs")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
	return cmd
}

type distanceOutput struct {
	From          dto.Coordinates `json:"from"`
	To            dto.Coordinates `json:"to"`
	DistanceKm    float64         `json:"distance_km"`
	LocationScore float64         `json:"location_score"`
}

func newDistanceCmd(load loader) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "distance",
		Short: `Great-circle distance between two places, given as "lat,lon" or a place name`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := load()
			if err != nil {
				return err
			}
			resolver := matching.NewGeoResolver(s.geocoder)

			a, err := resolvePlace(cmd, resolver, from)
			if err != nil {
				return err
			}
			b, err := resolvePlace(cmd, resolver, to)
			if err != nil {
				return err
			}

			d := matching.DistanceKm(a, b)
			return writeJSON(cmd.OutOrStdout(), distanceOutput{
				From:          dto.Coordinates{Latitude: a.Latitude, Longitude: a.Longitude},
				To:            dto.Coordinates{Latitude: b.Latitude, Longitude: b.Longitude},
				DistanceKm:    d,
				LocationScore: matching.LocationScore(d, s.settings.MaxDistanceKm),
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "origin")
	cmd.Flags().StringVar(&to, "to", "", "destination")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func resolvePlace(cmd *cobra.Command, resolver *matching.GeoResolver, place string) (matching.Coordinates, error) {
	if c, ok := parseLatLon(place); ok {
		return c, nil
	}
	c, ok := resolver.Resolve(cmd.Context(), place)
	if !ok {
		return matching.Coordinates{}, fmt.Errorf("%q: %w", place, matching.ErrLocationNotFound)
	}
	return c, nil
}

func parseLatLon(s string) (matching.Coordinates, bool) {
	latS, lonS, ok := strings.Cut(s, ",")
	if !ok {
		return matching.Coordinates{}, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latS), 64)
	if err != nil {
		return matching.Coordinates{}, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonS), 64)
	if err != nil {
		return matching.Coordinates{}, false
	}
	c := matching.Coordinates{Latitude: lat, Longitude: lon}
	return c, c.Valid()
}

func (s *session) rankOptions() matching.RankOptions {
	return matching.RankOptions{K: s.settings.K, MaxDistanceKm: s.settings.MaxDistanceKm}
}
