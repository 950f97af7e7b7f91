package recommendation

import (
	"math"

	"github.com/yourusername/athlete-guard/internal/models"
)

// Category names, in output order.
const (
	CategoryRecovery   = "Recovery Strategies"
	CategoryTraining   = "Training Adjustments"
	CategoryPrevention = "Injury Prevention"
	CategoryNutrition  = "Nutrition"
	CategoryMental     = "Mental Health"
	CategoryWarmUp     = "Sport-Specific Warm-Ups"
)

// Categories lists every category in output order.
var Categories = []string{
	CategoryRecovery,
	CategoryTraining,
	CategoryPrevention,
	CategoryNutrition,
	CategoryMental,
	CategoryWarmUp,
}

// Raw codes the calculator form sends. The rules compare these as received;
// names are not translated.
const (
	codeFemale   = 1
	codeFootball = 0
	codeRunning  = 3
)

// inputs holds the profile values the rules read, with defaults applied.
type inputs struct {
	fatigue       float64
	recovery      float64
	totalHours    float64
	highIntensity float64
	injuryCount   float64
	flexibility   float64
	agility       float64
	strength      float64
	age           float64
	female        bool
	football      bool
	running       bool
}

func newInputs(p *models.AthleteProfile) inputs {
	if p == nil {
		p = &models.AthleteProfile{}
	}
	return inputs{
		fatigue:       models.ValueOr(p.FatigueLevel, 5),
		recovery:      models.ValueOr(p.RecoveryTimeBetweenSessions, 12),
		totalHours:    math.Max(models.ValueOr(p.TotalWeeklyTrainingHours, 1), 1),
		highIntensity: models.ValueOr(p.HighIntensityTrainingHours, 0),
		injuryCount:   models.ValueOr(p.PreviousInjuryCount, 0),
		flexibility:   models.ValueOr(p.FlexibilityScore, 5),
		agility:       models.ValueOr(p.AgilityScore, 5),
		strength:      models.ValueOr(p.StrengthTrainingFrequency, 0),
		age:           models.ValueOr(p.Age, 30),
		female:        isFemale(p.Gender),
		football:      isFootball(p.SportType),
		running:       isRunning(p.SportType),
	}
}

func isFemale(c *models.Category) bool {
	return c.CodeIs(codeFemale)
}

// isFootball treats an absent sport as code 0. An explicit null matches nothing.
func isFootball(c *models.Category) bool {
	return c == nil || c.CodeIs(codeFootball)
}

func isRunning(c *models.Category) bool {
	return c.CodeIs(codeRunning)
}

func (in inputs) intensityRatio() float64 {
	return in.highIntensity / in.totalHours
}

// priority scales value against threshold and clamps to [0,1].
func priority(value, threshold, weight float64) float64 {
	return math.Min(1, math.Max(0, value/threshold*weight))
}

// rule emits one recommendation when match holds.
type rule struct {
	category string
	text     string
	details  string
	source   string
	match    func(in inputs) bool
	priority func(in inputs) float64
}

func fixed(p float64) func(inputs) float64 {
	return func(inputs) float64 { return p }
}

// rules in declaration order. Output is regrouped by category.
var rules = []rule{
	{
		category: CategoryRecovery,
		text:     "High fatigue detected. Prioritize 48–72 hours of active recovery with hydration and 8+ hours of sleep nightly.",
		details:  "Incorporate light stretching and 2–3L of water daily. Monitor sleep quality with a tracker for optimal recovery.",
		source:   "https://www.mayoclinic.org/healthy-lifestyle/fitness/in-depth/recovery/art-20057777",
		match:    func(in inputs) bool { return in.fatigue >= 8 },
		priority: func(in inputs) float64 { return priority(in.fatigue, 10, 0.9) },
	},
	{
		category: CategoryRecovery,
		text:     "Elevated fatigue: Reduce high-intensity sessions by 20% this week and monitor soreness.",
		details:  "Use foam rolling for 10–15 minutes post-session to alleviate muscle tension and promote circulation.",
		source:   "https://www.nsca.com/education/articles/recovery-techniques-for-athletes/",
		match:    func(in inputs) bool { return in.fatigue >= 6 && in.fatigue < 8 },
		priority: func(in inputs) float64 { return priority(in.fatigue, 10, 0.7) },
	},
	{
		category: CategoryRecovery,
		text:     "Insufficient recovery time. Increase rest to 12–24 hours between sessions.",
		details:  "Schedule sessions to allow muscle repair, especially after high-intensity workouts, to reduce injury risk.",
		source:   "https://pubmed.ncbi.nlm.nih.gov/28933711/",
		match:    func(in inputs) bool { return in.recovery < 8 },
		priority: func(in inputs) float64 { return priority(8-in.recovery, 8, 0.8) },
	},
	{
		category: CategoryTraining,
		text:     "High-intensity training exceeds 70%. Shift to 60% low-intensity/technical work.",
		details:  "Incorporate drills focusing on technique or endurance to balance training load and prevent overtraining.",
		source:   "https://www.acsm.org/docs/default-source/files-for-resource-library/overtraining.pdf",
		match:    func(in inputs) bool { return in.intensityRatio() > 0.7 },
		priority: func(in inputs) float64 { return priority(in.intensityRatio(), 1, 0.75) },
	},
	{
		category: CategoryPrevention,
		text:     "Multiple injuries noted. Add daily mobility and strength balance exercises.",
		details:  "Perform exercises like single-leg squats and hip bridges for 15 minutes daily to enhance joint stability.",
		source:   "https://www.physio-pedia.com/Injury_Prevention_in_Sports",
		match:    func(in inputs) bool { return in.injuryCount >= 2 },
		priority: func(in inputs) float64 { return priority(in.injuryCount, 5, 0.85) },
	},
	{
		category: CategoryPrevention,
		text:     "Low flexibility. Include 10–15 minutes of dynamic warm-ups and static stretching daily.",
		details:  "Focus on hamstrings, hip flexors, and shoulders with stretches like lunges and arm circles to improve range of motion.",
		source:   "https://www.mayoclinic.org/healthy-lifestyle/fitness/in-depth/stretching/art-20047931",
		match:    func(in inputs) bool { return in.flexibility < 5 },
		priority: func(in inputs) float64 { return priority(5-in.flexibility, 5, 0.65) },
	},
	{
		category: CategoryTraining,
		text:     "Improve agility with cone drills and ladder exercises twice weekly.",
		details:  "Perform 3 sets of 10 reps for drills like lateral shuffles or T-drills to enhance quickness and coordination.",
		source:   "https://www.nsca.com/education/articles/agility-and-quickness-training/",
		match:    func(in inputs) bool { return in.agility < 5 },
		priority: func(in inputs) float64 { return priority(5-in.agility, 5, 0.6) },
	},
	{
		category: CategoryTraining,
		text:     "Increase strength training to 2–3 sessions/week for joint stability.",
		details:  "Include compound lifts like squats and deadlifts with moderate weights to build resilience.",
		source:   "https://www.acsm.org/docs/default-source/files-for-resource-library/strength-training.pdf",
		match:    func(in inputs) bool { return in.strength < 2 },
		priority: func(in inputs) float64 { return priority(2-in.strength, 2, 0.7) },
	},
	{
		category: CategoryNutrition,
		text:     "Optimize nutrition with 1.2–2.0g/kg body weight protein daily for recovery.",
		details:  "Consume protein-rich meals within 2 hours post-workout (e.g., chicken, eggs, or whey) to support muscle repair.",
		source:   "https://jissn.biomedcentral.com/articles/10.1186/s12970-017-0177-8",
		match:    func(in inputs) bool { return in.fatigue >= 6 || in.recovery < 12 },
		priority: func(in inputs) float64 { return priority(math.Max(in.fatigue, 12-in.recovery), 10, 0.6) },
	},
	{
		category: CategoryMental,
		text:     "Address mental fatigue with 10–15 minutes of mindfulness or meditation daily.",
		details:  "Use guided meditation apps or breathing exercises to reduce stress and improve focus.",
		source:   "https://www.mayoclinic.org/tests-procedures/meditation/in-depth/meditation/art-20045858",
		match:    func(in inputs) bool { return in.fatigue >= 7 },
		priority: func(in inputs) float64 { return priority(in.fatigue, 10, 0.55) },
	},
	{
		category: CategoryWarmUp,
		text:     "Football: Perform dynamic warm-ups with high-knee sprints and lateral cuts for 10 minutes.",
		details:  "Focus on explosive movements to prepare for sprinting and tackling demands.",
		source:   "https://www.nsca.com/education/articles/warm-ups-for-soccer/",
		match:    func(in inputs) bool { return in.football },
		priority: fixed(0.6),
	},
	{
		category: CategoryWarmUp,
		text:     "Running: Include 10-minute warm-ups with leg swings and walking lunges.",
		details:  "Emphasize hip mobility and gradual pace increases to prevent shin splints and strains.",
		source:   "https://www.runnersworld.com/training/a20787998/dynamic-warmup/",
		match:    func(in inputs) bool { return !in.football && in.running },
		priority: fixed(0.6),
	},
	{
		category: CategoryPrevention,
		text:     "Age over 40: Add low-impact cross-training (e.g., swimming, yoga) twice weekly.",
		details:  "Low-impact activities reduce joint stress while maintaining fitness.",
		source:   "https://www.arthritis.org/health-wellness/healthy-living/physical-activity/other-activities/low-impact-exercises",
		match:    func(in inputs) bool { return in.age > 40 },
		priority: func(in inputs) float64 { return priority(in.age-40, 40, 0.6) },
	},
	{
		category: CategoryPrevention,
		text:     "Female athletes: Include pelvic floor exercises 3 times/week to support core stability.",
		details:  "Exercises like Kegels strengthen the pelvic floor, reducing injury risk during high-impact activities.",
		source:   "https://www.womenshealthmag.com/fitness/a20709126/pelvic-floor-exercises/",
		match:    func(in inputs) bool { return in.female },
		priority: fixed(0.65),
	},
}
