package renderer

// Chunk vertices are emitted in world space, so the shader only needs the
// combined view projection matrix. The attribute layout matches the 64 byte
// interleaved vertex the mesher produces.
var chunkVertexShaderSource = `#version 410 core

layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inNormal;
layout(location = 2) in vec2 inTexCoord;
layout(location = 3) in float inAO;
layout(location = 4) in float inLight;
layout(location = 5) in float inEmissive;
layout(location = 6) in vec2 inTileOrigin;
layout(location = 7) in vec3 inTint;

uniform mat4 viewProjection;

out vec3 fragNormal;
out vec2 fragTexCoord;
out float fragAO;
out float fragLight;
out float fragEmissive;
out vec2 fragTileOrigin;
out vec3 fragTint;
out vec3 fragPos;

void main() {
    fragNormal = inNormal;
    fragTexCoord = inTexCoord;
    fragAO = inAO;
    fragLight = inLight;
    fragEmissive = inEmissive;
    fragTileOrigin = inTileOrigin;
    fragTint = inTint;
    fragPos = inPosition;

    gl_Position = viewProjection * vec4(inPosition, 1.0);
}
` + "\x00"

var chunkFragmentShaderSource = `#version 410 core

in vec3 fragNormal;
in vec2 fragTexCoord;
in float fragAO;
in float fragLight;
in float fragEmissive;
in vec2 fragTileOrigin;
in vec3 fragTint;
in vec3 fragPos;

uniform sampler2D atlasSampler;
uniform vec3 sunDirection;
uniform vec3 skyColor;
uniform vec3 viewPos;
uniform float fogStart;
uniform float fogEnd;
uniform int translucentPass;

// One 16px tile in the 512px atlas. Merged quads repeat the tile through
// fract so a wide face samples the same texels as individual cubes would.
const float tileScale = 0.03125;

out vec4 FragColor;

void main() {
    vec2 tileUV = fract(fragTexCoord);
    // Shrink toward the tile center by half a texel so linear-adjacent tiles
    // never bleed across the seam.
    tileUV = clamp(tileUV, 0.03125, 0.96875);
    vec4 texColor = texture(atlasSampler, fragTileOrigin + tileUV * tileScale);

    if (translucentPass == 0 && texColor.a < 0.5) {
        discard;
    }

    float facing = 0.7 + 0.3 * max(dot(normalize(fragNormal), -sunDirection), 0.0);
    float brightness = max(fragLight, fragEmissive);
    float shade = (0.08 + 0.92 * brightness) * facing * fragAO;

    vec3 lit = texColor.rgb * fragTint * shade;

    float dist = length(fragPos - viewPos);
    float fog = clamp((dist - fogStart) / (fogEnd - fogStart), 0.0, 1.0);
    lit = mix(lit, skyColor, fog);

    float alpha = 1.0;
    if (translucentPass == 1) {
        alpha = texColor.a * 0.8;
    }
    FragColor = vec4(lit, alpha);
}
` + "\x00"

func InitChunkShader() Shader {
	return Shader{
		vertexSource:   chunkVertexShaderSource,
		fragmentSource: chunkFragmentShaderSource,
	}
}
