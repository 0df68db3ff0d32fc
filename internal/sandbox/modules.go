package sandbox

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"sync"
)

// Module is a loadable library: a map from export name to a Go value
// (usually a function) that goja makes callable from scripts.
type Module map[string]any

// Registry resolves whitelisted module names to their implementations.
// It is the library-loading collaborator of the execution context builder.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]Module
}

// NewRegistry returns a registry preloaded with the built-in modules.
func NewRegistry() *Registry {
	r := &Registry{modules: make(map[string]Module)}
	r.Register("stats", statsModule())
	r.Register("re", regexModule())
	return r
}

// Register adds or replaces a module. Callers registering custom modules
// must also whitelist the name via the policy's custom libraries.
func (r *Registry) Register(name string, m Module) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules[name] = m
}

// Load resolves a module by name.
func (r *Registry) Load(name string) (Module, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if m, ok := r.modules[name]; ok {
		return m, nil
	}
	if m, ok := r.modules[libraryRoot(name)]; ok {
		return m, nil
	}
	return nil, &DependencyLoadError{Module: name}
}

// statsModule provides the numeric helpers scripts most often reach for.
func statsModule() Module {
	return Module{
		"sum":    statSum,
		"mean":   statMean,
		"median": statMedian,
		"min":    statMin,
		"max":    statMax,
		"stddev": statStddev,
		"count":  func(values []any) int { return len(values) },
	}
}

func statSum(values []any) (float64, error) {
	nums, err := toFloats(values)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, n := range nums {
		total += n
	}
	return total, nil
}

func statMean(values []any) (float64, error) {
	nums, err := toFloats(values)
	if err != nil {
		return 0, err
	}
	if len(nums) == 0 {
		return 0, fmt.Errorf("mean of empty list")
	}
	var total float64
	for _, n := range nums {
		total += n
	}
	return total / float64(len(nums)), nil
}

func statMedian(values []any) (float64, error) {
	nums, err := toFloats(values)
	if err != nil {
		return 0, err
	}
	if len(nums) == 0 {
		return 0, fmt.Errorf("median of empty list")
	}
	sort.Float64s(nums)
	mid := len(nums) / 2
	if len(nums)%2 == 0 {
		return (nums[mid-1] + nums[mid]) / 2, nil
	}
	return nums[mid], nil
}

func statMin(values []any) (float64, error) {
	nums, err := toFloats(values)
	if err != nil {
		return 0, err
	}
	if len(nums) == 0 {
		return 0, fmt.Errorf("min of empty list")
	}
	out := nums[0]
	for _, n := range nums[1:] {
		if n < out {
			out = n
		}
	}
	return out, nil
}

func statMax(values []any) (float64, error) {
	nums, err := toFloats(values)
	if err != nil {
		return 0, err
	}
	if len(nums) == 0 {
		return 0, fmt.Errorf("max of empty list")
	}
	out := nums[0]
	for _, n := range nums[1:] {
		if n > out {
			out = n
		}
	}
	return out, nil
}

func statStddev(values []any) (float64, error) {
	nums, err := toFloats(values)
	if err != nil {
		return 0, err
	}
	if len(nums) < 2 {
		return 0, fmt.Errorf("stddev needs at least 2 values")
	}
	var total float64
	for _, n := range nums {
		total += n
	}
	mean := total / float64(len(nums))
	var sq float64
	for _, n := range nums {
		sq += (n - mean) * (n - mean)
	}
	return math.Sqrt(sq / float64(len(nums)-1)), nil
}

func toFloats(values []any) ([]float64, error) {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		switch n := v.(type) {
		case float64:
			out = append(out, n)
		case int64:
			out = append(out, float64(n))
		case int:
			out = append(out, float64(n))
		default:
			return nil, fmt.Errorf("non-numeric value %v", v)
		}
	}
	return out, nil
}

// regexModule exposes regex helpers under the 're' module.
func regexModule() Module {
	return Module{
		"findAll": func(pattern, text string) ([]string, error) {
			re, err := regexp.Compile(pattern)
			if err != nil {
				return nil, err
			}
			return re.FindAllString(text, -1), nil
		},
		"search": func(pattern, text string) (string, error) {
			re, err := regexp.Compile(pattern)
			if err != nil {
				return "", err
			}
			return re.FindString(text), nil
		},
		"split": func(pattern, text string) ([]string, error) {
			re, err := regexp.Compile(pattern)
			if err != nil {
				return nil, err
			}
			return re.Split(text, -1), nil
		},
		"replace": func(pattern, text, repl string) (string, error) {
			re, err := regexp.Compile(pattern)
			if err != nil {
				return "", err
			}
			return re.ReplaceAllString(text, repl), nil
		},
	}
}
