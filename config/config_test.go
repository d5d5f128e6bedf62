package config_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/healthcheck/config"
)

var envKeys = []string{
	"HOSTS", "TIMEOUT", "RETRIES", "INTERVAL", "SKIP_FINAL_SLEEP", "CONCURRENCY",
	"LOG_LEVEL", "ENVIRONMENT", "PORT", "FAIL_COUNT", "RESPONSE_DELAY",
}

func clearEnv() {
	for _, key := range envKeys {
		os.Unsetenv(key)
	}
}

func setEnv(key, value string) {
	Expect(os.Setenv(key, value)).To(Succeed())
}

var _ = Describe("Config", func() {
	var tempDir string

	BeforeEach(func() {
		clearEnv()
		tempDir = GinkgoT().TempDir()
	})

	AfterEach(func() {
		clearEnv()
	})

	writeFile := func(name, content string) {
		Expect(os.WriteFile(filepath.Join(tempDir, name), []byte(content), 0644)).To(Succeed())
	}

	Describe("Load", func() {
		Context("with environment variables", func() {
			It("should require HOSTS", func() {
				cfg, err := config.Load(tempDir)
				Expect(err).To(HaveOccurred())
				Expect(cfg).To(BeNil())
			})

			It("should reject an empty HOSTS", func() {
				setEnv("HOSTS", "  ")
				_, err := config.Load(tempDir)
				Expect(err).To(HaveOccurred())
			})

			It("should apply defaults", func() {
				setEnv("HOSTS", "localhost")

				cfg, err := config.Load(tempDir)
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Hosts).To(Equal([]string{"localhost"}))
				Expect(cfg.Timeout).To(Equal("1s"))
				Expect(cfg.Retries).To(Equal(5))
				Expect(cfg.Interval).To(Equal("1s"))
				Expect(cfg.SkipFinalSleep).To(BeFalse())
				Expect(cfg.Concurrency).To(BeZero())
				Expect(cfg.LogLevel).To(Equal(config.LogLevelInfo))
				Expect(cfg.Environment).To(Equal(config.EnvDev))
			})

			It("should read custom values and trim hosts", func() {
				setEnv("HOSTS", " host1, host2, host3")
				setEnv("TIMEOUT", "500ms")
				setEnv("RETRIES", "3")
				setEnv("INTERVAL", "2s")
				setEnv("SKIP_FINAL_SLEEP", "true")
				setEnv("CONCURRENCY", "2")

				cfg, err := config.Load(tempDir)
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Hosts).To(Equal([]string{"host1", "host2", "host3"}))
				Expect(cfg.Retries).To(Equal(3))
				Expect(cfg.SkipFinalSleep).To(BeTrue())
				Expect(cfg.Concurrency).To(Equal(2))

				hc, err := cfg.HealthCheck()
				Expect(err).NotTo(HaveOccurred())
				Expect(hc.Hosts).To(Equal([]string{"host1", "host2", "host3"}))
				Expect(hc.Timeout).To(Equal(500 * time.Millisecond))
				Expect(hc.Retries).To(Equal(3))
				Expect(hc.Interval).To(Equal(2 * time.Second))
			})

			It("should allow zero retries and a zero interval", func() {
				setEnv("HOSTS", "http://localhost:3030/healthcheck")
				setEnv("RETRIES", "0")
				setEnv("INTERVAL", "0ms")

				cfg, err := config.Load(tempDir)
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Retries).To(BeZero())
			})

			DescribeTable("invalid values",
				func(key, value string) {
					setEnv("HOSTS", "http://localhost:3030")
					setEnv(key, value)

					cfg, err := config.Load(tempDir)
					Expect(err).To(HaveOccurred())
					Expect(cfg).To(BeNil())
				},
				Entry("timeout without unit", "TIMEOUT", "1000"),
				Entry("timeout with unknown unit", "TIMEOUT", "1h"),
				Entry("zero timeout", "TIMEOUT", "0s"),
				Entry("interval without digits", "INTERVAL", "ms"),
				Entry("non-numeric retries", "RETRIES", "many"),
				Entry("negative retries", "RETRIES", "-1"),
				Entry("negative concurrency", "CONCURRENCY", "-2"),
				Entry("unknown log level", "LOG_LEVEL", "verbose"),
				Entry("unknown environment", "ENVIRONMENT", "qa"),
				Entry("blank host entry", "HOSTS", "http://a.local,,http://b.local"),
			)
		})

		Context("with a config file", func() {
			BeforeEach(func() {
				writeFile("healthcheck.yaml", `
hosts:
  - "http://localhost:8081/healthcheck"
  - "http://localhost:8082/healthcheck"
timeout: "200ms"
retries: 4
interval: "100ms"
log_level: "debug"
environment: "staging"
`)
			})

			It("should load configuration successfully", func() {
				cfg, err := config.Load(tempDir)
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Hosts).To(Equal([]string{
					"http://localhost:8081/healthcheck",
					"http://localhost:8082/healthcheck",
				}))
				Expect(cfg.Timeout).To(Equal("200ms"))
				Expect(cfg.Retries).To(Equal(4))
				Expect(cfg.LogLevel).To(Equal(config.LogLevelDebug))
				Expect(cfg.Environment).To(Equal(config.EnvStaging))
			})

			It("should let the environment override the file", func() {
				setEnv("RETRIES", "1")
				setEnv("HOSTS", "http://override.local")

				cfg, err := config.Load(tempDir)
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Retries).To(Equal(1))
				Expect(cfg.Hosts).To(Equal([]string{"http://override.local"}))
			})
		})

		Context("with a malformed config file", func() {
			It("should return the parse error", func() {
				writeFile("healthcheck.yaml", "hosts: [unterminated\n")

				_, err := config.Load(tempDir)
				Expect(err).To(HaveOccurred())
			})
		})

		Context("with a .env file", func() {
			It("should load variables from it", func() {
				writeFile(".env", "HOSTS=http://dotenv.local\nRETRIES=2\n")

				cfg, err := config.Load(tempDir)
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Hosts).To(Equal([]string{"http://dotenv.local"}))
				Expect(cfg.Retries).To(Equal(2))
			})

			It("should not override variables already set", func() {
				writeFile(".env", "HOSTS=http://dotenv.local\n")
				setEnv("HOSTS", "http://env.local")

				cfg, err := config.Load(tempDir)
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Hosts).To(Equal([]string{"http://env.local"}))
			})
		})
	})

	Describe("LoadTestServer", func() {
		It("should apply defaults", func() {
			cfg, err := config.LoadTestServer(tempDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Port).To(Equal(3030))
			Expect(cfg.Addr()).To(Equal(":3030"))
			Expect(cfg.FailCount).To(BeZero())
			Expect(cfg.MaxResponseDelay()).To(BeZero())
		})

		It("should read custom values", func() {
			setEnv("PORT", "4040")
			setEnv("FAIL_COUNT", "3")
			setEnv("RESPONSE_DELAY", "250")

			cfg, err := config.LoadTestServer(tempDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Addr()).To(Equal(":4040"))
			Expect(cfg.FailCount).To(Equal(3))
			Expect(cfg.MaxResponseDelay()).To(Equal(250 * time.Millisecond))
		})

		DescribeTable("invalid values",
			func(key, value string) {
				setEnv(key, value)
				_, err := config.LoadTestServer(tempDir)
				Expect(err).To(HaveOccurred())
			},
			Entry("port out of range", "PORT", "70000"),
			Entry("non-numeric port", "PORT", "http"),
			Entry("negative fail count", "FAIL_COUNT", "-1"),
			Entry("negative delay", "RESPONSE_DELAY", "-10"),
		)
	})
})
