package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/richinsley/goviewport/shader"
)

var (
	shadertoyAPIURL = "https://www.shadertoy.com/api/v1"
	shadertoyRawURL = "https://www.shadertoy.com/shadertoy"
)

// Global client with a custom User-Agent header.
var httpClient = &http.Client{
	Transport: &headerTransport{Transport: http.DefaultTransport},
}

type headerTransport struct {
	Transport http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", "https://github.com/richinsley/goviewport")
	}
	return t.Transport.RoundTrip(req)
}

// --- Structs for Shadertoy API Response ---

type ShadertoyResponse struct {
	Shader *Shader `json:"Shader"`
	Error  string  `json:"Error,omitempty"`
	IsAPI  bool    `json:"isAPI,omitempty"`
}

type Shader struct {
	Info       ShaderInfo   `json:"info"`
	RenderPass []RenderPass `json:"renderpass"`
}

type ShaderInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

type RenderPass struct {
	Inputs []Input `json:"inputs"`
	Code   string  `json:"code"`
	Name   string  `json:"name"`
	Type   string  `json:"type"`
}

type Input struct {
	Channel int    `json:"channel"`
	CType   string `json:"ctype"`
	Src     string `json:"src"`
}

// raw shader data is ever so slightly different from the API response.
type rawShaderResponse []rawShader

type rawShader struct {
	Info          ShaderInfo      `json:"info"`
	RawRenderPass []rawRenderPass `json:"renderpass"`
}

type rawRenderPass struct {
	Inputs []rawInput `json:"inputs"`
	Code   string     `json:"code"`
	Name   string     `json:"name"`
	Type   string     `json:"type"`
}

type rawInput struct {
	Filepath string `json:"filepath"`
	Type     string `json:"type"`
	Channel  int    `json:"channel"`
}

func rawShaderToShader(raw rawShader) *Shader {
	s := &Shader{
		Info:       raw.Info,
		RenderPass: make([]RenderPass, len(raw.RawRenderPass)),
	}
	for i, rPass := range raw.RawRenderPass {
		s.RenderPass[i] = RenderPass{
			Inputs: make([]Input, len(rPass.Inputs)),
			Code:   rPass.Code,
			Name:   rPass.Name,
			Type:   rPass.Type,
		}
		for j, inp := range rPass.Inputs {
			s.RenderPass[i].Inputs[j] = Input{
				Channel: inp.Channel,
				CType:   inp.Type,
				Src:     inp.Filepath,
			}
		}
	}
	return s
}

// ShaderID extracts the shader ID from an ID or a shadertoy.com/view URL.
func ShaderID(idOrURL string) string {
	id := strings.TrimSuffix(strings.TrimSpace(idOrURL), "/")
	if strings.Contains(id, "/") {
		id = filepath.Base(id)
	}
	return id
}

// getCacheDir determines the appropriate OS-specific cache directory.
func getCacheDir(subdir string) (string, error) {
	var baseCacheDir string
	var err error

	switch runtime.GOOS {
	case "windows":
		baseCacheDir = os.Getenv("LOCALAPPDATA")
		if baseCacheDir == "" {
			err = fmt.Errorf("LOCALAPPDATA environment variable not set")
		}
	case "darwin":
		homeDir := os.Getenv("HOME")
		if homeDir == "" {
			err = fmt.Errorf("HOME environment variable not set")
		} else {
			baseCacheDir = filepath.Join(homeDir, "Library", "Caches")
		}
	default: // linux, bsd, etc.
		baseCacheDir = os.Getenv("XDG_CACHE_HOME")
		if baseCacheDir == "" {
			homeDir := os.Getenv("HOME")
			if homeDir == "" {
				err = fmt.Errorf("HOME environment variable not set")
			} else {
				baseCacheDir = filepath.Join(homeDir, ".cache")
			}
		}
	}

	if err != nil {
		return "", err
	}

	cacheDir := filepath.Join(baseCacheDir, "goviewport", subdir)
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create cache directory at %s: %w", cacheDir, err)
	}
	return cacheDir, nil
}

func readCachedShader(cachePath string) (*ShadertoyResponse, error) {
	data, err := os.ReadFile(cachePath)
	if err != nil {
		return nil, err
	}
	var shaderResp ShadertoyResponse
	if err := json.Unmarshal(data, &shaderResp); err != nil {
		return nil, fmt.Errorf("failed to decode cached shader JSON: %w", err)
	}
	if shaderResp.Shader == nil {
		return nil, fmt.Errorf("cached shader JSON is invalid: 'Shader' key is missing")
	}
	return &shaderResp, nil
}

// ShaderFromID fetches a shader's JSON data from Shadertoy.com by its ID or
// URL. Shaders the API refuses (not published with API access) are
// fetched from the public endpoint instead. With useCache, responses are
// stored under the user cache directory and reused.
func ShaderFromID(apikey string, idOrURL string, useCache bool) (*ShadertoyResponse, error) {
	shaderID := ShaderID(idOrURL)
	if shaderID == "" {
		return nil, fmt.Errorf("empty shader ID")
	}

	var cachePath string
	if useCache {
		cacheDir, err := getCacheDir("shaders")
		if err != nil {
			return nil, fmt.Errorf("could not get cache directory: %w", err)
		}
		cachePath = filepath.Join(cacheDir, shaderID+".json")
		resp, err := readCachedShader(cachePath)
		if err == nil {
			log.Printf("Shader %s loaded from cache", shaderID)
			return resp, nil
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read cached shader file %s: %w", cachePath, err)
		}
	}

	shaderResp, err := fetchShader(apikey, shaderID)
	if err != nil {
		return nil, err
	}

	if useCache {
		data, err := json.Marshal(shaderResp)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal shader for cache: %w", err)
		}
		if err := os.WriteFile(cachePath, data, 0644); err != nil {
			return nil, fmt.Errorf("failed to write shader to cache at %s: %w", cachePath, err)
		}
		log.Printf("Shader %s cached at %s", shaderID, cachePath)
	}
	return shaderResp, nil
}

func fetchShader(apikey, shaderID string) (*ShadertoyResponse, error) {
	var shaderResp ShadertoyResponse

	if apikey != "" {
		req, err := http.NewRequest("GET", fmt.Sprintf("%s/shaders/%s", shadertoyAPIURL, shaderID), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		q := req.URL.Query()
		q.Add("key", apikey)
		req.URL.RawQuery = q.Encode()

		resp, err := httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request to shadertoy API failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("failed to load shader %s, status code: %d", shaderID, resp.StatusCode)
		}
		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read shader response: %w", err)
		}
		if err := json.Unmarshal(bodyBytes, &shaderResp); err != nil {
			return nil, fmt.Errorf("failed to decode shader JSON: %w", err)
		}
		if shaderResp.Error == "" && shaderResp.Shader != nil {
			shaderResp.IsAPI = true
			return &shaderResp, nil
		}
		log.Printf("Warning: Shadertoy API error for %s: %s (is it public+api?)", shaderID, shaderResp.Error)
	}

	rawData, err := GetRawAPIShaderData(shaderID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch raw shader data for %s: %w", shaderID, err)
	}
	var rawResp rawShaderResponse
	if err := json.Unmarshal([]byte(rawData), &rawResp); err != nil {
		return nil, fmt.Errorf("failed to decode raw shader JSON: %w", err)
	}
	if len(rawResp) == 0 {
		return nil, fmt.Errorf("raw shader response is empty for %s", shaderID)
	}
	return &ShadertoyResponse{Shader: rawShaderToShader(rawResp[0])}, nil
}

// SourceFromJSON extracts the single-pass source from a response. The
// returned flag is false when the shader uses buffers, sound or media
// inputs, which are not rendered.
func SourceFromJSON(shaderData *ShadertoyResponse) (shader.Source, bool, error) {
	var src shader.Source
	if shaderData == nil || shaderData.Shader == nil {
		return src, false, fmt.Errorf("shader data must have a 'Shader' key")
	}

	complete := true
	hasImage := false
	for _, rPass := range shaderData.Shader.RenderPass {
		switch rPass.Type {
		case "image":
			src.Image = rPass.Code
			hasImage = true
			for _, in := range rPass.Inputs {
				if in.CType != "keyboard" {
					log.Printf("Warning: unsupported %s input on channel %d", in.CType, in.Channel)
					complete = false
				}
			}
		case "common":
			src.Common = rPass.Code
		default:
			log.Printf("Warning: unsupported render pass type: %s", rPass.Type)
			complete = false
		}
	}
	if !hasImage {
		return src, false, fmt.Errorf("shader has no image pass")
	}

	info := shaderData.Shader.Info
	src.Title = fmt.Sprintf(`"%s" by %s`, info.Name, info.Username)
	return src, complete, nil
}
