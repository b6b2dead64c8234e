package classifier

import "testing"

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name      string
		message   string
		violence  bool
		love      bool
		dominant  Emotion
		intensity Intensity
	}{
		{"contradiction", "Je ressens de l'amour et de la haine en même temps", true, true, EmotionContradiction, IntensityStrong},
		{"violence-inflection", "Il l'a frappée hier", true, false, EmotionViolence, IntensityStrong},
		{"violence-verb", "Je détestais ce moment", true, false, EmotionViolence, IntensityStrong},
		{"love", "Je t'adore", false, true, EmotionLove, IntensityModerate},
		{"love-uppercase", "AMOUREUSE", false, true, EmotionLove, IntensityModerate},
		{"neutral", "Bonjour, comment vas-tu ?", false, false, EmotionNeutral, IntensityLow},
		{"empty", "", false, false, EmotionNeutral, IntensityLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Analyze(tt.message)
			if got.Violence != tt.violence || got.Love != tt.love {
				t.Errorf("flags: got violence=%v love=%v, want %v %v", got.Violence, got.Love, tt.violence, tt.love)
			}
			if got.Contradiction != (tt.violence && tt.love) {
				t.Errorf("contradiction: got %v", got.Contradiction)
			}
			if got.DominantEmotion != tt.dominant {
				t.Errorf("dominant: got %q, want %q", got.DominantEmotion, tt.dominant)
			}
			if got.Intensity != tt.intensity {
				t.Errorf("intensity: got %q, want %q", got.Intensity, tt.intensity)
			}
		})
	}
}

func TestAnalyzeIndependentOfClassifier(t *testing.T) {
	// "rage" is a strong anger word for the classifier but not an analyzer stem.
	msg := "rage"
	if Classify(msg) == 1 {
		t.Fatal("classifier should pick a state for rage")
	}
	if a := Analyze(msg); a.Violence {
		t.Error("analyzer should not flag rage")
	}
}
