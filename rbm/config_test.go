package rbm

import "testing"

func TestDefaultConfig(t *testing.T) {
	if !DefaultConf(10, 12, 12).IsValid() {
		t.Errorf("Expected Default Config to be correct")
	}
}

func TestConfigValidate(t *testing.T) {
	valid := DefaultConf(4, 5, 3)
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"zero batch", func(c *Config) { c.BatchSize = 0 }},
		{"zero k", func(c *Config) { c.K = 0 }},
		{"negative k", func(c *Config) { c.K = -1 }},
		{"zero learn rate", func(c *Config) { c.LearnRate = 0 }},
		{"negative learn rate", func(c *Config) { c.LearnRate = -0.1 }},
		{"zero factors", func(c *Config) { c.Factors = 0 }},
		{"zero hidden", func(c *Config) { c.H = 0 }},
		{"short variance", func(c *Config) { c.Var1 = []float32{1, 1} }},
		{"zero variance", func(c *Config) { c.Var2 = []float32{1, 0, 1} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := valid
			tt.modify(&conf)
			err := conf.Validate()
			if err == nil {
				t.Fatalf("Expected %v to be invalid", conf)
			}
			if !IsDegenerate(err) {
				t.Errorf("Expected a DegenerateConfig error. Got %v", err)
			}
		})
	}
}

func TestInitStdDev(t *testing.T) {
	conf := DefaultConf(4, 5, 4)
	if got := conf.InitStdDev(); got != 0.5 {
		t.Errorf("Expected 1/sqrt((4+4)/2) = 0.5. Got %v", got)
	}
}
