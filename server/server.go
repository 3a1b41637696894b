package server

import (
	"fmt"
	"net/http"

	"germplasm-accession-importer/logging"
	"germplasm-accession-importer/metrics"
	"germplasm-accession-importer/server/common"
	"germplasm-accession-importer/server/handler"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

/*
Config HTTP 服务配置。

	AdminToken 非空时 /admin 下的路由需要 Bearer token；
	UploadDir 上传文件的保存目录；
	InputDir 请求可以通过 location 引用的本地目录，为空时只接受 s3:// 地址；
*/
type Config struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	DebugMode  bool   `yaml:"debug_mode"`
	AdminToken string `yaml:"admin_token"`
	UploadDir  string `yaml:"upload_dir"`
	InputDir   string `yaml:"input_dir"`
}

func GenerateTestConfig() *Config {
	return &Config{
		Host:      "127.0.0.1",
		Port:      8003,
		DebugMode: true,
	}
}

type Server struct {
	engine *gin.Engine
	config *Config
}

func New(config *Config) *Server {
	if !config.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	if config.AdminToken == "" {
		logging.Default().Warnf("admin_token is empty, /admin routes accept unauthenticated requests")
	}

	handler.Init(&handler.Setting{UploadDir: config.UploadDir, InputDir: config.InputDir})

	eng := gin.New()
	eng.Use(gin.Recovery())
	eng.Use(common.LogRequest)
	eng.Use(cors.Default())

	eng.GET("/test/coffee", coffeeHandler)
	eng.GET("/metrics", gin.WrapH(metrics.Default().Handler()))

	adminGroup := eng.Group("admin")
	{
		adminGroup.Use(common.RejectNotAuthorized(config.AdminToken))

		adminGroup.POST("/import", handler.ImportFile)
		adminGroup.POST("/import/async", handler.SubmitImport)
	}

	return &Server{
		engine: eng,
		config: config,
	}
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) RunServer() error {
	return s.engine.Run(fmt.Sprintf("%s:%d", s.config.Host, s.config.Port))
}

func coffeeHandler(ctx *gin.Context) {
	ctx.String(http.StatusTeapot, "I'm a teapot")
}
