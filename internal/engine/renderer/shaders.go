package renderer

const sceneVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;

uniform mat4 uViewProj;
uniform mat4 uModel;

out vec3 vNormal;
out vec3 vWorldPos;

void main() {
	vec4 world = uModel * vec4(aPos, 1.0);
	vWorldPos = world.xyz;
	vNormal = mat3(uModel) * aNormal;
	gl_Position = uViewProj * world;
}
`

const sceneFragmentShader = `
#version 410 core

in vec3 vNormal;
in vec3 vWorldPos;

uniform vec3 uColor;
uniform vec3 uLightDir;
uniform vec3 uCameraPos;
uniform int uPixelLights;

out vec4 FragColor;

void main() {
	vec3 n = normalize(vNormal);
	vec3 l = normalize(-uLightDir);
	float diffuse = max(dot(n, l), 0.0);
	vec3 color = uColor * (0.3 + 0.7 * diffuse);

	// Specular only while per-pixel lights are allowed.
	if (uPixelLights > 0) {
		vec3 v = normalize(uCameraPos - vWorldPos);
		vec3 h = normalize(l + v);
		color += vec3(0.25) * pow(max(dot(n, h), 0.0), 32.0);
	}
	FragColor = vec4(color, 1.0);
}
`

const waterVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;

uniform mat4 uViewProj;
uniform vec4 uWaveScale4;
uniform vec4 uWaveOffset;

out vec4 vClipPos;
out vec2 vBumpUV0;
out vec2 vBumpUV1;
out vec3 vWorldPos;

void main() {
	vec4 clip = uViewProj * vec4(aPos, 1.0);
	vec4 temp = aPos.xzxz * uWaveScale4 + uWaveOffset;
	vBumpUV0 = temp.xy;
	vBumpUV1 = temp.wz;
	vClipPos = clip;
	vWorldPos = aPos;
	gl_Position = clip;
}
`

const waterFragmentShader = `
#version 410 core

in vec4 vClipPos;
in vec2 vBumpUV0;
in vec2 vBumpUV1;
in vec3 vWorldPos;

uniform sampler2D _ReflectionTex;
uniform sampler2D _RefractionTex;
uniform vec3 uCameraPos;
uniform vec4 uHorizonColor;
uniform vec4 uRefrColor;
uniform float uDistortion;

out vec4 FragColor;

vec3 ripple(vec2 uv) {
	return normalize(vec3(sin(uv.x * 6.2831853), 4.0, cos(uv.y * 6.2831853)));
}

void main() {
	vec3 n = normalize(ripple(vBumpUV0) + ripple(vBumpUV1));
	vec3 v = normalize(uCameraPos - vWorldPos);
	float fresnel = 1.0 - max(dot(v, n), 0.0);

	vec2 screen = vClipPos.xy / vClipPos.w * 0.5 + 0.5;
	vec2 offset = n.xz * uDistortion;

#if defined(WATER_REFRACTIVE)
	vec4 refl = texture(_ReflectionTex, screen + offset);
	vec4 refr = texture(_RefractionTex, screen - offset) * uRefrColor;
	FragColor = vec4(mix(refr.rgb, refl.rgb, fresnel), 1.0);
#elif defined(WATER_REFLECTIVE)
	vec4 refl = texture(_ReflectionTex, screen + offset);
	FragColor = vec4(mix(uHorizonColor.rgb, refl.rgb, fresnel), 1.0);
#else
	FragColor = vec4(mix(uRefrColor.rgb, uHorizonColor.rgb, fresnel), 1.0);
#endif
}
`
